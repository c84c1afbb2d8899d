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

	"github.com/jerry-enebeli/purse/model"
	"github.com/pkg/errors"
)

// transactionLog is the append-only posting store. Postings are indexed by
// account and by transaction; positions in the slice never change.
type transactionLog struct {
	mu            sync.RWMutex
	sequence      int64
	postings      []model.Posting
	byAccount     map[string][]int
	byTransaction map[string][]int
	pageSize      int
}

func newTransactionLog(pageSize int) *transactionLog {
	return &transactionLog{
		byAccount:     make(map[string][]int),
		byTransaction: make(map[string][]int),
		pageSize:      pageSize,
	}
}

func validatePosting(p *model.Posting) error {
	if p == nil {
		return errors.Wrap(model.ErrInvalidPostingGroup, "posting is nil")
	}
	if p.AccountID == "" || p.TransactionID == "" {
		return errors.Wrapf(model.ErrInvalidPostingGroup, "posting %s is missing account or transaction ID", p.PostingID)
	}
	return nil
}

// store appends under the write lock held by the caller. Sequence and Hash
// are set on the caller's posting so it matches the stored copy.
func (l *transactionLog) store(p *model.Posting) {
	l.sequence++
	p.Sequence = l.sequence
	p.Hash = p.HashPosting()

	position := len(l.postings)
	l.postings = append(l.postings, clonePosting(*p))
	l.byAccount[p.AccountID] = append(l.byAccount[p.AccountID], position)
	l.byTransaction[p.TransactionID] = append(l.byTransaction[p.TransactionID], position)
}

// Append stores one posting and assigns its sequence number.
func (d *Datasource) Append(p *model.Posting) error {
	if err := validatePosting(p); err != nil {
		return err
	}
	l := d.postings
	l.mu.Lock()
	defer l.mu.Unlock()
	l.store(p)
	return nil
}

// AppendGroup stores the two postings of a transfer under a single write lock.
// No reader can observe one without the other.
func (d *Datasource) AppendGroup(a, b *model.Posting) error {
	if err := validatePosting(a); err != nil {
		return err
	}
	if err := validatePosting(b); err != nil {
		return err
	}
	if a.TransactionID != b.TransactionID {
		return errors.Wrapf(model.ErrInvalidPostingGroup, "postings belong to %s and %s", a.TransactionID, b.TransactionID)
	}

	l := d.postings
	l.mu.Lock()
	defer l.mu.Unlock()
	l.store(a)
	l.store(b)
	return nil
}

// QueryByAccount lists an account's postings newest first, ties broken by
// descending sequence. A limit of zero or less uses the default page size.
func (d *Datasource) QueryByAccount(accountID string, limit, offset int) ([]model.Posting, error) {
	l := d.postings
	if limit <= 0 {
		limit = l.pageSize
	}
	if offset < 0 {
		offset = 0
	}

	l.mu.RLock()
	positions := l.byAccount[accountID]
	history := make([]model.Posting, 0, len(positions))
	for _, pos := range positions {
		history = append(history, clonePosting(l.postings[pos]))
	}
	l.mu.RUnlock()

	sortNewestFirst(history)

	if offset >= len(history) {
		return []model.Posting{}, nil
	}
	end := offset + limit
	if end > len(history) {
		end = len(history)
	}
	return history[offset:end], nil
}

// RecentByAccounts returns the newest n postings across the given accounts.
func (d *Datasource) RecentByAccounts(accountIDs []string, n int) ([]model.Posting, error) {
	if n <= 0 {
		return []model.Posting{}, nil
	}
	l := d.postings

	l.mu.RLock()
	recent := make([]model.Posting, 0, n*len(accountIDs))
	for _, id := range accountIDs {
		positions := l.byAccount[id]
		// an account's postings are appended in time order, so its newest n are at the tail
		start := len(positions) - n
		if start < 0 {
			start = 0
		}
		for _, pos := range positions[start:] {
			recent = append(recent, clonePosting(l.postings[pos]))
		}
	}
	l.mu.RUnlock()

	sortNewestFirst(recent)
	if len(recent) > n {
		recent = recent[:n]
	}
	return recent, nil
}

func (d *Datasource) GetPostingsByTransactionID(transactionID string) ([]model.Posting, error) {
	l := d.postings
	l.mu.RLock()
	defer l.mu.RUnlock()

	positions, ok := l.byTransaction[transactionID]
	if !ok {
		return nil, errors.Wrapf(model.ErrTransactionNotFound, "transaction with ID '%s'", transactionID)
	}
	postings := make([]model.Posting, 0, len(positions))
	for _, pos := range positions {
		postings = append(postings, clonePosting(l.postings[pos]))
	}
	return postings, nil
}

func sortNewestFirst(postings []model.Posting) {
	sort.Slice(postings, func(i, j int) bool {
		if !postings[i].CreatedAt.Equal(postings[j].CreatedAt) {
			return postings[i].CreatedAt.After(postings[j].CreatedAt)
		}
		return postings[i].Sequence > postings[j].Sequence
	})
}

func clonePosting(p model.Posting) model.Posting {
	if p.BillDetails != nil {
		details := *p.BillDetails
		p.BillDetails = &details
	}
	return p
}
