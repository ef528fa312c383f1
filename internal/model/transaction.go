// Package model defines the core domain types shared across the pipeline.
package model

import (
	"crypto/sha256"
	"fmt"
	"math"
	"strings"
	"time"
)

// TransactionType identifies the kind of service a customer received.
type TransactionType string

// Known transaction types, as reported by the feed.
const (
	TypeWithdrawal      TransactionType = "withdrawal"
	TypeDeposit         TransactionType = "deposit"
	TypeEncashment      TransactionType = "encashment"
	TypeTransfer        TransactionType = "transfer"
	TypeCustomerService TransactionType = "customer service"
	TypeAccountService  TransactionType = "account service"
	TypeLoan            TransactionType = "loan"
)

// ParseTransactionType normalizes a raw cell into a TransactionType.
// Underscores are accepted in place of spaces since both appear in feeds.
func ParseTransactionType(raw string) TransactionType {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "_", " ")
	return TransactionType(s)
}

// IsComplex reports whether the type counts against the service
// efficiency complexity penalty.
func (t TransactionType) IsComplex() bool {
	switch t {
	case TypeLoan, TypeAccountService, TypeCustomerService:
		return true
	}
	return false
}

// Transaction is a single service transaction from the feed.
// Numeric fields coerced from malformed cells are NaN; consumers must
// exclude NaN values from means rather than treating them as zero.
type Transaction struct {
	Date           time.Time
	ID             string
	CustomerID     string
	BranchName     string // raw, as reported by the feed
	Type           TransactionType
	Sentiment      string // positive/neutral/negative label
	ReviewText     string
	Hash           string
	WaitingTime    float64 // minutes
	ProcessingTime float64 // minutes
	TotalTime      float64 // minutes; waiting + processing
	SentimentScore float64 // 1.0 to 5.0
}

// GenerateHash creates a stable hash for duplicate detection on import.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s:%.2f:%.2f",
		t.Date.Format("2006-01-02"),
		t.BranchName,
		t.ID,
		t.Type,
		t.WaitingTime,
		t.ProcessingTime)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// HasDate reports whether the record carried a parseable date.
func (t *Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// Day returns the transaction's calendar date truncated to midnight UTC,
// used for daily volume grouping.
func (t *Transaction) Day() time.Time {
	return time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, time.UTC)
}

// Missing is the coerced value for a cell that could not be parsed as a
// number.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether a coerced numeric value was unparseable.
func IsMissing(v float64) bool { return math.IsNaN(v) }
