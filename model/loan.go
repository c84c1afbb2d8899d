package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanApproved LoanStatus = "approved"
	LoanRejected LoanStatus = "rejected"
)

type Loan struct {
	LoanID       string          `json:"loan_id"`
	OwnerID      string          `json:"owner_id"`
	LoanType     string          `json:"loan_type"`
	Amount       decimal.Decimal `json:"amount"`
	Purpose      string          `json:"purpose"`
	Income       decimal.Decimal `json:"income"`
	Employment   string          `json:"employment"`
	Status       LoanStatus      `json:"status"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	AppliedAt    time.Time       `json:"applied_at"`
	DecidedAt    *time.Time      `json:"decided_at,omitempty"`
}

type Investment struct {
	InvestmentID   string          `json:"investment_id"`
	OwnerID        string          `json:"owner_id"`
	InvestmentType string          `json:"investment_type"`
	Amount         decimal.Decimal `json:"amount"`
	Duration       int             `json:"duration"`
	ExpectedReturn decimal.Decimal `json:"expected_return"`
	Status         string          `json:"status"`
	InvestedAt     time.Time       `json:"invested_at"`
	MaturityDate   time.Time       `json:"maturity_date"`
}

const InvestmentActive = "active"

// DashboardSummary is the read-only overview shown to an owner.
type DashboardSummary struct {
	TotalBalance       decimal.Decimal `json:"total_balance"`
	AccountsCount      int             `json:"accounts_count"`
	RecentTransactions []Posting       `json:"recent_transactions"`
	ActiveLoans        int             `json:"active_loans"`
	TotalInvestments   decimal.Decimal `json:"total_investments"`
}
