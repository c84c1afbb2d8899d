package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeBusiness AccountType = "business"
)

// IsValid reports whether t is one of the account products on offer.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeBusiness:
		return true
	}
	return false
}

type Account struct {
	AccountID string          `json:"account_id"`
	OwnerID   string          `json:"owner_id"`
	Number    string          `json:"number"`
	Type      AccountType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

// OwnedBy reports whether the account belongs to ownerID and can still be used.
func (a *Account) OwnedBy(ownerID string) bool {
	return a.Active && a.OwnerID == ownerID
}
