package model

import (
	"testing"
	"time"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw         string
		want        float64
		wantMissing bool
	}{
		{"3.5", 3.5, false},
		{"  7 ", 7, false},
		{"0", 0, false},
		{"-1.25", -1.25, false},
		{"", 0, true},
		{"n/a", 0, true},
		{"3,5", 0, true},
	}
	for _, tt := range tests {
		got := ParseNumber(tt.raw)
		if tt.wantMissing {
			if !IsMissing(got) {
				t.Errorf("ParseNumber(%q) = %v, want missing", tt.raw, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		raw      string
		want     time.Time
		wantZero bool
	}{
		{"2025-03-10", want, false},
		{"03/10/2025", want, false},
		{"2025-03-10 08:30:00", time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC), false},
		{"", time.Time{}, true},
		{"yesterday", time.Time{}, true},
	}
	for _, tt := range tests {
		got := ParseDate(tt.raw)
		if tt.wantZero {
			if !got.IsZero() {
				t.Errorf("ParseDate(%q) = %v, want zero time", tt.raw, got)
			}
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		raw  string
		want TransactionType
	}{
		{"Withdrawal", TypeWithdrawal},
		{"  DEPOSIT ", TypeDeposit},
		{"customer_service", TypeCustomerService},
		{"Account Service", TypeAccountService},
	}
	for _, tt := range tests {
		if got := ParseTransactionType(tt.raw); got != tt.want {
			t.Errorf("ParseTransactionType(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestGenerateHashStable(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	a := Transaction{ID: "TXN-1", BranchName: "Makati", Date: date, Type: TypeDeposit, WaitingTime: 3, ProcessingTime: 4}
	b := a
	if a.GenerateHash() != b.GenerateHash() {
		t.Error("identical transactions must hash equal")
	}
	b.WaitingTime = 5
	if a.GenerateHash() == b.GenerateHash() {
		t.Error("different service times must hash differently")
	}
}

func TestIsPeakDay(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2025-03-10", true},  // Monday
		{"2025-03-14", true},  // Friday
		{"2025-03-15", true},  // payday
		{"2025-04-30", true},  // payday
		{"2025-03-11", false}, // Tuesday
		{"2025-03-12", false}, // Wednesday
	}
	for _, tt := range tests {
		date, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatalf("bad test date %q: %v", tt.date, err)
		}
		if got := IsPeakDay(date); got != tt.want {
			t.Errorf("IsPeakDay(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}
