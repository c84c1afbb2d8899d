package purse

import (
	"context"

	"github.com/jerry-enebeli/purse/model"
	"github.com/shopspring/decimal"
)

// recentTransactionsLimit is the number of postings shown on the dashboard.
const recentTransactionsLimit = 5

// DashboardSummary composes the owner's overview. It only reads, so calling
// it any number of times leaves the ledger unchanged.
func (p *Purse) DashboardSummary(ctx context.Context, ownerID string) (*model.DashboardSummary, error) {
	_, span := tracer.Start(ctx, "Building dashboard summary")
	defer span.End()

	accounts, err := p.datasource.GetActiveAccountsByOwner(ownerID)
	if err != nil {
		return nil, logAndRecordError(span, "accounts error", err)
	}

	summary := &model.DashboardSummary{
		TotalBalance:     decimal.Zero,
		AccountsCount:    len(accounts),
		TotalInvestments: decimal.Zero,
	}
	ids := make([]string, 0, len(accounts))
	for _, account := range accounts {
		summary.TotalBalance = summary.TotalBalance.Add(account.Balance)
		ids = append(ids, account.AccountID)
	}

	summary.RecentTransactions, err = p.datasource.RecentByAccounts(ids, recentTransactionsLimit)
	if err != nil {
		return nil, logAndRecordError(span, "recent transactions error", err)
	}

	loans, err := p.datasource.GetLoansByOwner(ownerID)
	if err != nil {
		return nil, logAndRecordError(span, "loans error", err)
	}
	for _, loan := range loans {
		if loan.Status == model.LoanApproved {
			summary.ActiveLoans++
		}
	}

	investments, err := p.datasource.GetInvestmentsByOwner(ownerID)
	if err != nil {
		return nil, logAndRecordError(span, "investments error", err)
	}
	for _, investment := range investments {
		summary.TotalInvestments = summary.TotalInvestments.Add(investment.Amount)
	}

	return summary, nil
}
