/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package database

import (
	"time"

	"github.com/jerry-enebeli/purse/model"
	"github.com/shopspring/decimal"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	account    // Interface for account-related operations
	posting    // Interface for transaction log operations
	loan       // Interface for loan book operations
	investment // Interface for investment book operations
}

// account defines methods for handling accounts and their balances.
type account interface {
	CreateAccount(ownerID string, accountType model.AccountType, number string) (model.Account, error) // Creates a zero balance account with a unique number
	GetAccountByID(id string) (*model.Account, error)                                                  // Retrieves a consistent copy of an account by ID
	GetAccountByNumber(number string) (*model.Account, error)                                          // Retrieves an account by its number
	GetActiveAccountsByOwner(ownerID string) ([]model.Account, error)                                  // Lists an owner's active accounts in creation order
	Lease(ids ...string) (*Lease, error)                                                               // Takes exclusive locks on accounts in ascending ID order
	ApplyDelta(lease *Lease, id string, delta decimal.Decimal) (decimal.Decimal, error)                // Applies a signed amount to a leased account
	DeactivateAccount(lease *Lease, id string) error                                                   // Soft deletes a leased account
}

// posting defines methods for the append-only transaction log.
type posting interface {
	Append(p *model.Posting) error                                               // Appends one posting
	AppendGroup(a, b *model.Posting) error                                       // Appends two postings of one transaction atomically
	QueryByAccount(accountID string, limit, offset int) ([]model.Posting, error) // Lists an account's postings newest first
	RecentByAccounts(accountIDs []string, n int) ([]model.Posting, error)        // Newest n postings across a set of accounts
	GetPostingsByTransactionID(transactionID string) ([]model.Posting, error)    // Retrieves the postings of one transaction
}

// loan defines methods for handling loan applications.
type loan interface {
	CreateLoan(loan model.Loan) (model.Loan, error)                                          // Records a loan application
	GetLoanByID(id string) (*model.Loan, error)                                              // Retrieves a loan by ID
	GetLoansByOwner(ownerID string) ([]model.Loan, error)                                    // Lists an owner's loans in application order
	DecideLoan(id string, status model.LoanStatus, decidedAt time.Time) (*model.Loan, error) // Moves a pending loan to approved or rejected
}

// investment defines methods for handling investments.
type investment interface {
	CreateInvestment(investment model.Investment) (model.Investment, error) // Records an investment
	GetInvestmentsByOwner(ownerID string) ([]model.Investment, error)       // Lists an owner's investments
}
