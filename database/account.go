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
	"sort"
	"sync"
	"time"

	"github.com/jerry-enebeli/purse/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// accountRecord pairs an account with the lock that guards its balance.
type accountRecord struct {
	mu      sync.RWMutex
	account model.Account
}

func (r *accountRecord) snapshot() model.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.account
}

// accountStore keeps the indexes. Its own lock is never held while waiting
// on an account lock.
type accountStore struct {
	mu       sync.RWMutex
	byID     map[string]*accountRecord
	byNumber map[string]*accountRecord
	byOwner  map[string][]*accountRecord
}

func newAccountStore() *accountStore {
	return &accountStore{
		byID:     make(map[string]*accountRecord),
		byNumber: make(map[string]*accountRecord),
		byOwner:  make(map[string][]*accountRecord),
	}
}

func (s *accountStore) record(id string) (*accountRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	return rec, ok
}

// Lease is an exclusive hold on a set of accounts. Only the goroutine that
// took the lease may use it.
type Lease struct {
	records  []*accountRecord
	byID     map[string]*accountRecord
	released bool
}

// Covers reports whether the lease holds the account.
func (l *Lease) Covers(id string) bool {
	if l == nil || l.released {
		return false
	}
	_, ok := l.byID[id]
	return ok
}

// Account returns a copy of a leased account.
func (l *Lease) Account(id string) (model.Account, error) {
	if !l.Covers(id) {
		return model.Account{}, errors.Wrapf(model.ErrAccountNotLeased, "account %s", id)
	}
	return l.byID[id].account, nil
}

// Release frees the locks in reverse acquisition order. Releasing twice is a no-op.
func (l *Lease) Release() {
	if l == nil || l.released {
		return
	}
	for i := len(l.records) - 1; i >= 0; i-- {
		l.records[i].mu.Unlock()
	}
	l.released = true
}

// CreateAccount stores a new zero balance account.
//
// Parameters:
// - ownerID: the owner of the account.
// - accountType: one of the supported account products.
// - number: the public account number. It must not be used by any other account.
//
// Returns:
// - model.Account: the created account.
// - error: ErrDuplicateAccountNumber when the number is taken.
func (d *Datasource) CreateAccount(ownerID string, accountType model.AccountType, number string) (model.Account, error) {
	if !accountType.IsValid() {
		return model.Account{}, errors.Wrapf(model.ErrInvalidAccountType, "type %q", accountType)
	}

	s := d.accounts
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byNumber[number]; taken {
		return model.Account{}, errors.Wrapf(model.ErrDuplicateAccountNumber, "number %s", number)
	}

	rec := &accountRecord{account: model.Account{
		AccountID: model.GenerateUUIDWithSuffix("acc"),
		OwnerID:   ownerID,
		Number:    number,
		Type:      accountType,
		Balance:   decimal.Zero,
		Active:    true,
		CreatedAt: time.Now(),
	}}
	s.byID[rec.account.AccountID] = rec
	s.byNumber[number] = rec
	s.byOwner[ownerID] = append(s.byOwner[ownerID], rec)

	return rec.account, nil
}

// GetAccountByID returns a copy of the account, read under its shared lock.
func (d *Datasource) GetAccountByID(id string) (*model.Account, error) {
	rec, ok := d.accounts.record(id)
	if !ok {
		return nil, errors.Wrapf(model.ErrAccountNotFound, "account with ID '%s'", id)
	}
	account := rec.snapshot()
	return &account, nil
}

func (d *Datasource) GetAccountByNumber(number string) (*model.Account, error) {
	s := d.accounts
	s.mu.RLock()
	rec, ok := s.byNumber[number]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(model.ErrAccountNotFound, "account with number '%s'", number)
	}
	account := rec.snapshot()
	return &account, nil
}

// GetActiveAccountsByOwner lists the owner's active accounts in creation order.
func (d *Datasource) GetActiveAccountsByOwner(ownerID string) ([]model.Account, error) {
	s := d.accounts
	s.mu.RLock()
	records := make([]*accountRecord, len(s.byOwner[ownerID]))
	copy(records, s.byOwner[ownerID])
	s.mu.RUnlock()

	accounts := make([]model.Account, 0, len(records))
	for _, rec := range records {
		account := rec.snapshot()
		if account.Active {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

// Lease takes the exclusive locks of the given accounts. Locks are always
// acquired in ascending account ID order so two leases over the same pair
// cannot deadlock. Unknown IDs fail before anything is locked.
func (d *Datasource) Lease(ids ...string) (*Lease, error) {
	unique := make(map[string]struct{}, len(ids))
	sorted := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, seen := unique[id]; seen {
			continue
		}
		unique[id] = struct{}{}
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	lease := &Lease{
		records: make([]*accountRecord, 0, len(sorted)),
		byID:    make(map[string]*accountRecord, len(sorted)),
	}
	for _, id := range sorted {
		rec, ok := d.accounts.record(id)
		if !ok {
			return nil, errors.Wrapf(model.ErrAccountNotFound, "account with ID '%s'", id)
		}
		lease.records = append(lease.records, rec)
		lease.byID[id] = rec
	}

	for _, rec := range lease.records {
		rec.mu.Lock()
	}
	return lease, nil
}

// ApplyDelta is the only way a balance changes. The new balance is computed
// and checked before it is committed, so a rejected delta leaves the account
// untouched.
//
// Parameters:
// - lease: a live lease covering the account.
// - id: the account to change.
// - delta: a signed amount, positive to credit and negative to debit.
//
// Returns:
// - decimal.Decimal: the balance after the change.
// - error: ErrAccountNotLeased or ErrInsufficientFunds.
func (d *Datasource) ApplyDelta(lease *Lease, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	if !lease.Covers(id) {
		return decimal.Zero, errors.Wrapf(model.ErrAccountNotLeased, "account %s", id)
	}
	rec := lease.byID[id]

	next := rec.account.Balance.Add(delta)
	if next.IsNegative() {
		return rec.account.Balance, errors.Wrapf(model.ErrInsufficientFunds, "account %s has %s, needs %s",
			id, rec.account.Balance.StringFixed(model.AmountPrecision), delta.Neg().StringFixed(model.AmountPrecision))
	}
	rec.account.Balance = next
	return next, nil
}

// DeactivateAccount soft deletes a leased account. The balance is left as is.
func (d *Datasource) DeactivateAccount(lease *Lease, id string) error {
	if !lease.Covers(id) {
		return errors.Wrapf(model.ErrAccountNotLeased, "account %s", id)
	}
	lease.byID[id].account.Active = false
	return nil
}
