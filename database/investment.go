package database

import (
	"sync"
	"time"

	"github.com/jerry-enebeli/purse/model"
)

type investmentBook struct {
	mu      sync.RWMutex
	byOwner map[string][]model.Investment
}

func newInvestmentBook() *investmentBook {
	return &investmentBook{byOwner: make(map[string][]model.Investment)}
}

func (d *Datasource) CreateInvestment(investment model.Investment) (model.Investment, error) {
	if investment.InvestmentID == "" {
		investment.InvestmentID = model.GenerateUUIDWithSuffix("inv")
	}
	if investment.InvestedAt.IsZero() {
		investment.InvestedAt = time.Now()
	}

	b := d.investments
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byOwner[investment.OwnerID] = append(b.byOwner[investment.OwnerID], investment)
	return investment, nil
}

func (d *Datasource) GetInvestmentsByOwner(ownerID string) ([]model.Investment, error) {
	b := d.investments
	b.mu.RLock()
	defer b.mu.RUnlock()

	investments := make([]model.Investment, len(b.byOwner[ownerID]))
	copy(investments, b.byOwner[ownerID])
	return investments, nil
}
