package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PostingKind string

const (
	PostingCredit PostingKind = "credit"
	PostingDebit  PostingKind = "debit"
)

// BillDetails is attached to the debit posting of a bill payment.
type BillDetails struct {
	BillType   string `json:"bill_type"`
	BillerName string `json:"biller_name"`
	BillNumber string `json:"bill_number"`
}

// Posting is a single entry in the transaction log. Amount is signed: positive
// for credits and negative for debits. Balance is the account balance right
// after the posting was applied.
type Posting struct {
	PostingID     string          `json:"posting_id"`
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Kind          PostingKind     `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	Description   string          `json:"description"`
	Reference     string          `json:"reference,omitempty"`
	Sequence      int64           `json:"sequence"`
	Hash          string          `json:"hash"`
	BillDetails   *BillDetails    `json:"bill_details,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewPosting builds a posting for a signed amount. The kind follows the sign.
func NewPosting(transactionID, accountID string, amount, balance decimal.Decimal, description string) Posting {
	kind := PostingCredit
	if amount.IsNegative() {
		kind = PostingDebit
	}
	return Posting{
		PostingID:     GenerateUUIDWithSuffix("pst"),
		TransactionID: transactionID,
		AccountID:     accountID,
		Kind:          kind,
		Amount:        amount,
		Balance:       balance,
		Description:   description,
		CreatedAt:     time.Now(),
	}
}
