package model

import "github.com/shopspring/decimal"

type RecordDeposit struct {
	AccountID   string          `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
}

type RecordWithdrawal struct {
	AccountID   string          `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
}

type RecordTransfer struct {
	FromAccountID   string          `json:"from_account_id"`
	ToAccountNumber string          `json:"to_account_number"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Reference       string          `json:"reference"`
}

type PayBill struct {
	AccountID  string          `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
	BillType   string          `json:"bill_type"`
	BillerName string          `json:"biller_name"`
	BillNumber string          `json:"bill_number"`
	Reference  string          `json:"reference"`
}

type ApplyForLoan struct {
	LoanType   string          `json:"loan_type"`
	Amount     decimal.Decimal `json:"amount"`
	Purpose    string          `json:"purpose"`
	Income     decimal.Decimal `json:"income"`
	Employment string          `json:"employment"`
}

type DecideLoan struct {
	Approve *bool `json:"approve"`
}

type CreateInvestment struct {
	InvestmentType string          `json:"investment_type"`
	Amount         decimal.Decimal `json:"amount"`
	Duration       int             `json:"duration"`
}
