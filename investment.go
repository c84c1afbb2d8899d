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

type InvestmentRequest struct {
	InvestmentType string          `json:"investment_type"`
	Amount         decimal.Decimal `json:"amount"`
	Duration       int             `json:"duration"`
}

// CreateInvestment records an investment with its expected return and
// maturity date. The principal is not debited from any account.
func (p *Purse) CreateInvestment(ctx context.Context, ownerID string, req InvestmentRequest) (*model.Investment, error) {
	_, span := tracer.Start(ctx, "Creating investment")
	defer span.End()

	if !model.IsValidAmount(req.Amount) {
		return nil, invalidAmount(req.Amount)
	}
	if req.Duration < 1 {
		return nil, fmt.Errorf("%w: %d years", ErrInvalidDuration, req.Duration)
	}

	investedAt := time.Now()
	investment, err := p.datasource.CreateInvestment(model.Investment{
		OwnerID:        ownerID,
		InvestmentType: req.InvestmentType,
		Amount:         req.Amount,
		Duration:       req.Duration,
		ExpectedReturn: rates.InvestmentReturn(req.InvestmentType),
		Status:         model.InvestmentActive,
		InvestedAt:     investedAt,
		MaturityDate:   rates.MaturityDate(investedAt, req.Duration),
	})
	if err != nil {
		return nil, logAndRecordError(span, "create investment error", err)
	}
	span.SetAttributes(attribute.String("investment.id", investment.InvestmentID))

	p.postActions(EventInvestmentCreated, investment)
	return &investment, nil
}

func (p *Purse) GetInvestments(_ context.Context, ownerID string) ([]model.Investment, error) {
	return p.datasource.GetInvestmentsByOwner(ownerID)
}
