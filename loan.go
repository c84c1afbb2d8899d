package purse

import (
	"context"
	"fmt"
	"time"

	"github.com/jerry-enebeli/purse/model"
	"github.com/jerry-enebeli/purse/rates"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

type LoanApplication struct {
	LoanType   string          `json:"loan_type"`
	Amount     decimal.Decimal `json:"amount"`
	Purpose    string          `json:"purpose"`
	Income     decimal.Decimal `json:"income"`
	Employment string          `json:"employment"`
}

// ApplyForLoan records a pending loan application priced from the rate table.
// No money moves until a loan is approved, and approval itself does not
// disburse funds.
func (p *Purse) ApplyForLoan(ctx context.Context, ownerID string, application LoanApplication) (*model.Loan, error) {
	_, span := tracer.Start(ctx, "Applying for loan")
	defer span.End()

	if !model.IsValidAmount(application.Amount) {
		return nil, invalidAmount(application.Amount)
	}
	if application.Income.IsNegative() {
		return nil, fmt.Errorf("%w: income %s cannot be negative", ErrInvalidAmount, application.Income.String())
	}

	loan, err := p.datasource.CreateLoan(model.Loan{
		OwnerID:      ownerID,
		LoanType:     application.LoanType,
		Amount:       application.Amount,
		Purpose:      application.Purpose,
		Income:       application.Income,
		Employment:   application.Employment,
		Status:       model.LoanPending,
		InterestRate: rates.LoanInterestRate(application.LoanType),
		AppliedAt:    time.Now(),
	})
	if err != nil {
		return nil, logAndRecordError(span, "create loan error", err)
	}
	span.SetAttributes(attribute.String("loan.id", loan.LoanID))

	p.postActions(EventLoanApplied, loan)
	return &loan, nil
}

func (p *Purse) GetLoans(_ context.Context, ownerID string) ([]model.Loan, error) {
	return p.datasource.GetLoansByOwner(ownerID)
}

// DecideLoan approves or rejects a pending loan. It is a back office action
// and is not scoped to an owner.
func (p *Purse) DecideLoan(ctx context.Context, loanID string, approve bool) (*model.Loan, error) {
	_, span := tracer.Start(ctx, "Deciding loan")
	defer span.End()
	span.SetAttributes(attribute.String("loan.id", loanID), attribute.Bool("loan.approve", approve))

	status := model.LoanRejected
	if approve {
		status = model.LoanApproved
	}
	loan, err := p.datasource.DecideLoan(loanID, status, time.Now())
	if err != nil {
		return nil, logAndRecordError(span, "decide loan error", err)
	}

	p.postActions(EventLoanDecided, *loan)
	return loan, nil
}
