package database

import (
	"sync"
	"time"

	"github.com/jerry-enebeli/purse/model"
	"github.com/pkg/errors"
	"github.com/wacul/ptr"
)

type loanBook struct {
	mu      sync.RWMutex
	byID    map[string]*model.Loan
	byOwner map[string][]string
}

func newLoanBook() *loanBook {
	return &loanBook{
		byID:    make(map[string]*model.Loan),
		byOwner: make(map[string][]string),
	}
}

// CreateLoan records a loan application. An empty LoanID is generated.
func (d *Datasource) CreateLoan(loan model.Loan) (model.Loan, error) {
	if loan.LoanID == "" {
		loan.LoanID = model.GenerateUUIDWithSuffix("loan")
	}
	if loan.AppliedAt.IsZero() {
		loan.AppliedAt = time.Now()
	}

	b := d.loans
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.byID[loan.LoanID]; exists {
		return model.Loan{}, errors.Errorf("loan with ID '%s' already exists", loan.LoanID)
	}
	stored := loan
	b.byID[loan.LoanID] = &stored
	b.byOwner[loan.OwnerID] = append(b.byOwner[loan.OwnerID], loan.LoanID)
	return loan, nil
}

func (d *Datasource) GetLoanByID(id string) (*model.Loan, error) {
	b := d.loans
	b.mu.RLock()
	defer b.mu.RUnlock()

	loan, ok := b.byID[id]
	if !ok {
		return nil, errors.Wrapf(model.ErrLoanNotFound, "loan with ID '%s'", id)
	}
	found := cloneLoan(*loan)
	return &found, nil
}

func (d *Datasource) GetLoansByOwner(ownerID string) ([]model.Loan, error) {
	b := d.loans
	b.mu.RLock()
	defer b.mu.RUnlock()

	loans := make([]model.Loan, 0, len(b.byOwner[ownerID]))
	for _, id := range b.byOwner[ownerID] {
		loans = append(loans, cloneLoan(*b.byID[id]))
	}
	return loans, nil
}

// DecideLoan moves a pending loan to its final status. The check and the
// update happen under one lock, so a loan is decided at most once.
func (d *Datasource) DecideLoan(id string, status model.LoanStatus, decidedAt time.Time) (*model.Loan, error) {
	b := d.loans
	b.mu.Lock()
	defer b.mu.Unlock()

	loan, ok := b.byID[id]
	if !ok {
		return nil, errors.Wrapf(model.ErrLoanNotFound, "loan with ID '%s'", id)
	}
	if loan.Status != model.LoanPending {
		return nil, errors.Wrapf(model.ErrLoanAlreadyDecided, "loan %s is %s", id, loan.Status)
	}
	loan.Status = status
	loan.DecidedAt = ptr.Time(decidedAt)

	decided := cloneLoan(*loan)
	return &decided, nil
}

func cloneLoan(loan model.Loan) model.Loan {
	if loan.DecidedAt != nil {
		loan.DecidedAt = ptr.Time(*loan.DecidedAt)
	}
	return loan
}
