package database

import (
	"github.com/jerry-enebeli/purse/config"
)

// Datasource is the process-lifetime store behind the ledger. Nothing is
// persisted across restarts.
type Datasource struct {
	accounts    *accountStore
	postings    *transactionLog
	loans       *loanBook
	investments *investmentBook
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	return newDatasource(configuration), nil
}

func newDatasource(configuration *config.Configuration) *Datasource {
	pageSize := config.DEFAULT_PAGE_SIZE
	if configuration != nil && configuration.Ledger.DefaultPageSize > 0 {
		pageSize = configuration.Ledger.DefaultPageSize
	}
	return &Datasource{
		accounts:    newAccountStore(),
		postings:    newTransactionLog(pageSize),
		loans:       newLoanBook(),
		investments: newInvestmentBook(),
	}
}
