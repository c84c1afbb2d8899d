// Package rates holds the static loan and investment rate tables.
package rates

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	LoanPersonal = "personal"
	LoanHome     = "home"

	InvestmentFixedDeposit = "fixed_deposit"
	InvestmentMutualFund   = "mutual_fund"
	InvestmentStocks       = "stocks"
	InvestmentBonds        = "bonds"
)

// year is the elapsed-time length of one investment year. Leap days are not
// accounted for.
const year = 365 * 24 * time.Hour

var (
	defaultLoanRate         = decimal.RequireFromString("4.8")
	defaultInvestmentReturn = decimal.RequireFromString("5.0")

	loanRates = map[string]decimal.Decimal{
		LoanPersonal: decimal.RequireFromString("8.5"),
		LoanHome:     decimal.RequireFromString("6.2"),
	}

	investmentReturns = map[string]decimal.Decimal{
		InvestmentFixedDeposit: decimal.RequireFromString("5.5"),
		InvestmentMutualFund:   decimal.RequireFromString("12.0"),
		InvestmentStocks:       decimal.RequireFromString("15.0"),
		InvestmentBonds:        decimal.RequireFromString("7.0"),
	}
)

// LoanInterestRate returns the annual interest percentage for a loan type.
// Unknown types get the default rate.
func LoanInterestRate(loanType string) decimal.Decimal {
	if rate, ok := loanRates[loanType]; ok {
		return rate
	}
	return defaultLoanRate
}

// InvestmentReturn returns the expected annual return percentage for an
// investment type. Unknown types get the default return.
func InvestmentReturn(investmentType string) decimal.Decimal {
	if rate, ok := investmentReturns[investmentType]; ok {
		return rate
	}
	return defaultInvestmentReturn
}

// MaturityDate adds years of 365 days to start.
func MaturityDate(start time.Time, years int) time.Time {
	return start.Add(time.Duration(years) * year)
}

// Table is the full rate sheet, used by the gateway to publish rates.
type Table struct {
	Loans             map[string]decimal.Decimal `json:"loans"`
	DefaultLoan       decimal.Decimal            `json:"default_loan"`
	Investments       map[string]decimal.Decimal `json:"investments"`
	DefaultInvestment decimal.Decimal            `json:"default_investment"`
}

// Sheet returns a copy of both rate tables.
func Sheet() Table {
	t := Table{
		Loans:             make(map[string]decimal.Decimal, len(loanRates)),
		DefaultLoan:       defaultLoanRate,
		Investments:       make(map[string]decimal.Decimal, len(investmentReturns)),
		DefaultInvestment: defaultInvestmentReturn,
	}
	for k, v := range loanRates {
		t.Loans[k] = v
	}
	for k, v := range investmentReturns {
		t.Investments[k] = v
	}
	return t
}
