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

package purse

import (
	"context"
	"fmt"

	"github.com/jerry-enebeli/purse/database"
	"github.com/jerry-enebeli/purse/internal/notification"
	"github.com/jerry-enebeli/purse/model"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type DepositRequest struct {
	AccountID   string          `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
}

type WithdrawalRequest struct {
	AccountID   string          `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
}

type TransferRequest struct {
	FromAccountID   string          `json:"from_account_id"`
	ToAccountNumber string          `json:"to_account_number"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Reference       string          `json:"reference"`
}

type BillPaymentRequest struct {
	AccountID  string          `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
	BillType   string          `json:"bill_type"`
	BillerName string          `json:"biller_name"`
	BillNumber string          `json:"bill_number"`
	Reference  string          `json:"reference"`
}

// OperationResult is returned by single account operations.
type OperationResult struct {
	Balance decimal.Decimal `json:"balance"`
	Posting model.Posting   `json:"posting"`
}

// TransferResult carries both sides of a transfer. Debit and Credit share
// TransactionID.
type TransferResult struct {
	TransactionID string          `json:"transaction_id"`
	FromBalance   decimal.Decimal `json:"from_balance"`
	ToBalance     decimal.Decimal `json:"to_balance"`
	Debit         model.Posting   `json:"debit"`
	Credit        model.Posting   `json:"credit"`
}

// singleOperation describes a balance change on one account.
type singleOperation struct {
	name        string
	event       string
	accountID   string
	delta       decimal.Decimal
	description string
	reference   string
	bill        *model.BillDetails
}

func invalidAmount(amount decimal.Decimal) error {
	return fmt.Errorf("%w: %s must be positive with at most %d decimal places", ErrInvalidAmount, amount.String(), model.AmountPrecision)
}

func accountNotFound(accountID string) error {
	return fmt.Errorf("%w: account with ID '%s'", ErrAccountNotFound, accountID)
}

// Deposit credits an account owned by the caller.
//
// Parameters:
// - ctx context.Context: The context for the operation.
// - ownerID string: The authenticated owner.
// - req DepositRequest: The target account, amount, optional description and reference.
//
// Returns:
// - *OperationResult: The new balance and the credit posting.
// - error: ErrInvalidAmount, ErrAccountNotFound or ErrDuplicateReference.
func (p *Purse) Deposit(ctx context.Context, ownerID string, req DepositRequest) (*OperationResult, error) {
	if !model.IsValidAmount(req.Amount) {
		return nil, invalidAmount(req.Amount)
	}
	return p.applySingle(ctx, ownerID, singleOperation{
		name:        "Recording deposit",
		event:       EventDeposit,
		accountID:   req.AccountID,
		delta:       req.Amount,
		description: defaultString(req.Description, "Cash deposit"),
		reference:   req.Reference,
	})
}

// Withdraw debits an account owned by the caller. Overdrawing fails with
// ErrInsufficientFunds and leaves the account unchanged.
func (p *Purse) Withdraw(ctx context.Context, ownerID string, req WithdrawalRequest) (*OperationResult, error) {
	if !model.IsValidAmount(req.Amount) {
		return nil, invalidAmount(req.Amount)
	}
	return p.applySingle(ctx, ownerID, singleOperation{
		name:        "Recording withdrawal",
		event:       EventWithdrawal,
		accountID:   req.AccountID,
		delta:       req.Amount.Neg(),
		description: defaultString(req.Description, "Cash withdrawal"),
		reference:   req.Reference,
	})
}

// PayBill debits an account like Withdraw. The posting carries the bill details.
func (p *Purse) PayBill(ctx context.Context, ownerID string, req BillPaymentRequest) (*OperationResult, error) {
	if !model.IsValidAmount(req.Amount) {
		return nil, invalidAmount(req.Amount)
	}
	return p.applySingle(ctx, ownerID, singleOperation{
		name:        "Recording bill payment",
		event:       EventBillPayment,
		accountID:   req.AccountID,
		delta:       req.Amount.Neg(),
		description: fmt.Sprintf("%s bill payment to %s", req.BillType, req.BillerName),
		reference:   req.Reference,
		bill: &model.BillDetails{
			BillType:   req.BillType,
			BillerName: req.BillerName,
			BillNumber: req.BillNumber,
		},
	})
}

// applySingle leases one account, applies the delta and appends the posting
// before the lease is released.
func (p *Purse) applySingle(ctx context.Context, ownerID string, op singleOperation) (result *OperationResult, err error) {
	ctx, span := tracer.Start(ctx, op.name)
	defer span.End()
	span.SetAttributes(
		attribute.String("account.id", op.accountID),
		attribute.String("amount", op.delta.String()),
	)

	if err := p.claimReference(ctx, op.reference); err != nil {
		return nil, logAndRecordError(span, "reference error", err)
	}
	defer func() {
		if err != nil {
			p.releaseReference(ctx, op.reference)
		}
	}()

	lease, err := p.datasource.Lease(op.accountID)
	if err != nil {
		return nil, logAndRecordError(span, "lease error", err)
	}
	defer lease.Release()

	account, err := lease.Account(op.accountID)
	if err != nil {
		return nil, err
	}
	if !account.OwnedBy(ownerID) {
		return nil, accountNotFound(op.accountID)
	}

	balance, err := p.datasource.ApplyDelta(lease, op.accountID, op.delta)
	if err != nil {
		return nil, logAndRecordError(span, "apply delta error", err)
	}

	posting := model.NewPosting(model.GenerateUUIDWithSuffix("txn"), op.accountID, op.delta, balance, op.description)
	posting.Reference = op.reference
	posting.BillDetails = op.bill
	if err := p.datasource.Append(&posting); err != nil {
		p.compensate(span, lease, op.accountID, op.delta)
		return nil, logAndRecordError(span, "append posting error", err)
	}
	lease.Release()

	result = &OperationResult{Balance: balance, Posting: posting}
	p.postActions(op.event, *result)
	return result, nil
}

// Transfer moves money from an account owned by the caller to any active
// account, addressed by number.
//
// Both accounts are leased together, in ascending ID order, so transfers in
// opposite directions never deadlock. The source is debited first; if the
// credit or the append fails every applied delta is reversed before the lease
// is released, so no partial transfer is ever visible.
//
// Parameters:
// - ctx context.Context: The context for the operation.
// - ownerID string: The authenticated owner of the source account.
// - req TransferRequest: Source account ID, destination number, amount, description and reference.
//
// Returns:
// - *TransferResult: Both resulting balances and the posting pair.
// - error: ErrInvalidAmount, ErrAccountNotFound, ErrSameAccount, ErrInsufficientFunds or ErrDuplicateReference.
func (p *Purse) Transfer(ctx context.Context, ownerID string, req TransferRequest) (result *TransferResult, err error) {
	ctx, span := tracer.Start(ctx, "Recording transfer")
	defer span.End()
	span.SetAttributes(
		attribute.String("account.from", req.FromAccountID),
		attribute.String("account.to_number", req.ToAccountNumber),
		attribute.String("amount", req.Amount.String()),
	)

	if !model.IsValidAmount(req.Amount) {
		return nil, invalidAmount(req.Amount)
	}

	source, err := p.datasource.GetAccountByID(req.FromAccountID)
	if err != nil {
		return nil, logAndRecordError(span, "source error", err)
	}
	if !source.OwnedBy(ownerID) {
		return nil, accountNotFound(req.FromAccountID)
	}

	destination, err := p.datasource.GetAccountByNumber(req.ToAccountNumber)
	if err != nil {
		return nil, logAndRecordError(span, "destination error", err)
	}
	if destination.AccountID == source.AccountID {
		return nil, fmt.Errorf("%w: account with ID '%s'", ErrSameAccount, req.FromAccountID)
	}

	if err := p.claimReference(ctx, req.Reference); err != nil {
		return nil, logAndRecordError(span, "reference error", err)
	}
	defer func() {
		if err != nil {
			p.releaseReference(ctx, req.Reference)
		}
	}()

	lease, err := p.datasource.Lease(req.FromAccountID, destination.AccountID)
	if err != nil {
		return nil, logAndRecordError(span, "lease error", err)
	}
	defer lease.Release()

	from, err := lease.Account(req.FromAccountID)
	if err != nil {
		return nil, err
	}
	if !from.OwnedBy(ownerID) {
		return nil, accountNotFound(req.FromAccountID)
	}
	to, err := lease.Account(destination.AccountID)
	if err != nil {
		return nil, err
	}
	if !to.Active {
		return nil, fmt.Errorf("%w: account with number '%s'", ErrAccountNotFound, req.ToAccountNumber)
	}

	fromBalance, err := p.datasource.ApplyDelta(lease, from.AccountID, req.Amount.Neg())
	if err != nil {
		return nil, logAndRecordError(span, "debit error", err)
	}
	toBalance, err := p.datasource.ApplyDelta(lease, to.AccountID, req.Amount)
	if err != nil {
		p.compensate(span, lease, from.AccountID, req.Amount.Neg())
		return nil, logAndRecordError(span, "credit error", err)
	}

	transactionID := model.GenerateUUIDWithSuffix("txn")
	debit := model.NewPosting(transactionID, from.AccountID, req.Amount.Neg(), fromBalance,
		defaultString(req.Description, "Transfer to "+to.Number))
	credit := model.NewPosting(transactionID, to.AccountID, req.Amount, toBalance,
		defaultString(req.Description, "Transfer from "+from.Number))
	credit.CreatedAt = debit.CreatedAt
	debit.Reference, credit.Reference = req.Reference, req.Reference

	if err := p.datasource.AppendGroup(&debit, &credit); err != nil {
		p.compensate(span, lease, to.AccountID, req.Amount)
		p.compensate(span, lease, from.AccountID, req.Amount.Neg())
		return nil, logAndRecordError(span, "append posting error", err)
	}
	lease.Release()

	span.SetAttributes(attribute.String("transaction.id", transactionID))
	result = &TransferResult{
		TransactionID: transactionID,
		FromBalance:   fromBalance,
		ToBalance:     toBalance,
		Debit:         debit,
		Credit:        credit,
	}
	p.postActions(EventTransfer, *result)
	return result, nil
}

// compensate reverses a delta applied under the same lease. It cannot fail
// while the lease is held.
func (p *Purse) compensate(span trace.Span, lease *database.Lease, accountID string, applied decimal.Decimal) {
	if _, err := p.datasource.ApplyDelta(lease, accountID, applied.Neg()); err != nil {
		notification.NotifyError(logAndRecordError(span, "compensation error", fmt.Errorf("account %s: %w", accountID, err)))
	}
}

// GetTransactions lists postings of one of the owner's accounts, newest
// first. Deactivated accounts keep their history.
func (p *Purse) GetTransactions(ctx context.Context, ownerID, accountID string, limit, offset int) ([]model.Posting, error) {
	if _, err := p.GetAccount(ctx, ownerID, accountID); err != nil {
		return nil, err
	}
	return p.datasource.QueryByAccount(accountID, limit, offset)
}

// GetTransaction returns the postings of one transaction that sit on the
// caller's accounts, deactivated ones included. A transfer between two
// owners shows each owner only their own side.
func (p *Purse) GetTransaction(ctx context.Context, ownerID, transactionID string) ([]model.Posting, error) {
	_, span := tracer.Start(ctx, "Fetching transaction")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", transactionID))

	postings, err := p.datasource.GetPostingsByTransactionID(transactionID)
	if err != nil {
		return nil, err
	}

	owned := make([]model.Posting, 0, len(postings))
	for _, posting := range postings {
		account, err := p.datasource.GetAccountByID(posting.AccountID)
		if err != nil {
			return nil, logAndRecordError(span, "posting account error", err)
		}
		if account.OwnerID == ownerID {
			owned = append(owned, posting)
		}
	}
	if len(owned) == 0 {
		return nil, fmt.Errorf("%w: transaction with ID '%s'", ErrTransactionNotFound, transactionID)
	}
	return owned, nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
