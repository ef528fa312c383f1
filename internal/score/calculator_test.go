package score

import (
	"math"
	"testing"
	"time"

	"github.com/branch-pulse/internal/model"
)

func TestCombineBHS(t *testing.T) {
	if got := CombineBHS(80, 70, 60, 50); got != 70.00 {
		t.Fatalf("CombineBHS(80,70,60,50) = %v, want 70.00", got)
	}
	if got := CombineBHS(0, 0, 0, 0); got != 0 {
		t.Fatalf("CombineBHS zeros = %v, want 0", got)
	}
	if got := CombineBHS(100, 100, 100, 100); got != 100 {
		t.Fatalf("CombineBHS max = %v, want 100", got)
	}
}

func TestAggregate(t *testing.T) {
	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

	t.Run("means over the set", func(t *testing.T) {
		txns := []model.Transaction{
			txn(model.TypeDeposit, 2, 4, 4.0, day),
			txn(model.TypeDeposit, 4, 6, 3.0, day),
		}
		m := Aggregate(txns)
		if m.TransactionCount != 2 {
			t.Fatalf("count = %d, want 2", m.TransactionCount)
		}
		if m.AvgWaitingTime != 3 || m.AvgProcessingTime != 5 || m.AvgTransactionTime != 8 {
			t.Errorf("means = %v/%v/%v, want 3/5/8", m.AvgWaitingTime, m.AvgProcessingTime, m.AvgTransactionTime)
		}
		if m.AvgSentimentScore != 3.5 {
			t.Errorf("sentiment mean = %v, want 3.5", m.AvgSentimentScore)
		}
	})

	t.Run("missing cells excluded per field", func(t *testing.T) {
		a := txn(model.TypeDeposit, 2, 4, 4.0, day)
		b := txn(model.TypeDeposit, 6, 4, 4.0, day)
		b.SentimentScore = model.Missing()
		m := Aggregate([]model.Transaction{a, b})
		if m.AvgWaitingTime != 4 {
			t.Errorf("waiting mean = %v, want 4", m.AvgWaitingTime)
		}
		// The missing sentiment is skipped, not zeroed.
		if m.AvgSentimentScore != 4.0 {
			t.Errorf("sentiment mean = %v, want 4.0", m.AvgSentimentScore)
		}
	})
}

func TestCalculatorNoDataPolicy(t *testing.T) {
	c := NewCalculator()
	m := c.Metrics("Ayala", nil)

	if m.TransactionCount != 0 {
		t.Fatalf("count = %d, want 0", m.TransactionCount)
	}
	for name, v := range map[string]float64{
		"service efficiency":    m.ServiceEfficiency,
		"customer experience":   m.CustomerExperience,
		"peak capacity":         m.PeakCapacity,
		"financial performance": m.FinancialPerformance,
		"bhs":                   m.BHS,
	} {
		if v != 0 {
			t.Errorf("%s = %v, want exactly 0 for a no-data branch", name, v)
		}
	}
	if m.HasData() {
		t.Error("HasData() must be false for an empty set")
	}
}

func TestCalculatorFullMetrics(t *testing.T) {
	c := NewCalculator()
	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	txns := repeatTxns(50, model.TypeWithdrawal, 2, 2, 4.8, day)

	m := c.Metrics("Ayala", txns)
	if !m.HasData() {
		t.Fatal("expected data")
	}
	if m.ServiceEfficiency != 100 || m.CustomerExperience != 100 || m.PeakCapacity != 90 {
		t.Fatalf("sub-scores = %v/%v/%v, want 100/100/90",
			m.ServiceEfficiency, m.CustomerExperience, m.PeakCapacity)
	}

	fp := m.FinancialPerformance
	if fp < 20 || fp > 95 {
		t.Fatalf("financial performance %v outside [20,95]", fp)
	}
	want := CombineBHS(100, 100, 90, fp)
	if math.Abs(m.BHS-want) > 1e-9 {
		t.Fatalf("BHS = %v, want %v", m.BHS, want)
	}
}
