package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmountPrecision is the number of fractional digits an amount may carry.
const AmountPrecision = 2

const (
	accountNumberMin = 1000000000
	accountNumberMax = 9999999999
)

// GenerateUUIDWithSuffix generates a UUID with a given module name as a suffix.
// This is useful for creating unique identifiers with context-specific prefixes.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New() // Generate a new UUID.
	uuidStr := id.String()
	idWithSuffix := fmt.Sprintf("%s_%s", module, uuidStr) // Append the module as a suffix to the UUID.
	return idWithSuffix
}

// GenerateAccountNumber draws a 10 digit account number. Uniqueness is not
// guaranteed here; the account store rejects numbers that are already taken.
func GenerateAccountNumber() string {
	n := accountNumberMin + rand.Int63n(accountNumberMax-accountNumberMin+1)
	return strconv.FormatInt(n, 10)
}

// IsValidAmount reports whether amount is strictly positive and expressible in
// whole cents.
func IsValidAmount(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	return amount.Equal(amount.Truncate(AmountPrecision))
}

// HashPosting generates a SHA-256 hash of a posting's relevant fields.
// The hash lets an auditor detect a posting that was altered after it was appended.
func (p *Posting) HashPosting() string {
	data := fmt.Sprintf("%s%s%s%s%s%s%d",
		p.TransactionID,
		p.AccountID,
		p.Amount.StringFixed(AmountPrecision),
		p.Balance.StringFixed(AmountPrecision),
		p.Reference,
		p.CreatedAt.UTC().Format("2006-01-02T15:04:05.000000000Z"),
		p.Sequence,
	)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
