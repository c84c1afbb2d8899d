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
package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/jerry-enebeli/purse"
	"github.com/jerry-enebeli/purse/model"
	"github.com/shopspring/decimal"
)

// positiveAmount checks the request shape only; precision is enforced by the ledger.
func positiveAmount(value interface{}) error {
	amount, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("invalid type for amount")
	}
	if !amount.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
}

func nonNegativeAmount(value interface{}) error {
	amount, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("invalid type for amount")
	}
	if amount.IsNegative() {
		return errors.New("cannot be negative")
	}
	return nil
}

func accountTypes() []interface{} {
	return []interface{}{
		string(model.AccountTypeChecking),
		string(model.AccountTypeSavings),
		string(model.AccountTypeBusiness),
	}
}

func (a *CreateAccount) ValidateCreateAccount() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Type, validation.In(accountTypes()...).Error("must be one of checking, savings or business")),
	)
}

func (d *RecordDeposit) ValidateRecordDeposit() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.AccountID, validation.Required),
		validation.Field(&d.Amount, validation.By(positiveAmount)),
		validation.Field(&d.Description, validation.Length(0, 140)),
	)
}

func (w *RecordWithdrawal) ValidateRecordWithdrawal() error {
	return validation.ValidateStruct(w,
		validation.Field(&w.AccountID, validation.Required),
		validation.Field(&w.Amount, validation.By(positiveAmount)),
		validation.Field(&w.Description, validation.Length(0, 140)),
	)
}

func (t *RecordTransfer) ValidateRecordTransfer() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.FromAccountID, validation.Required),
		validation.Field(&t.ToAccountNumber, validation.Required, is.Digit, validation.Length(10, 10)),
		validation.Field(&t.Amount, validation.By(positiveAmount)),
		validation.Field(&t.Description, validation.Length(0, 140)),
	)
}

func (b *PayBill) ValidatePayBill() error {
	return validation.ValidateStruct(b,
		validation.Field(&b.AccountID, validation.Required),
		validation.Field(&b.Amount, validation.By(positiveAmount)),
		validation.Field(&b.BillType, validation.Required),
		validation.Field(&b.BillerName, validation.Required),
	)
}

func (l *ApplyForLoan) ValidateApplyForLoan() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.LoanType, validation.Required),
		validation.Field(&l.Amount, validation.By(positiveAmount)),
		validation.Field(&l.Income, validation.By(nonNegativeAmount)),
	)
}

func (d *DecideLoan) ValidateDecideLoan() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Approve, validation.NotNil.Error("approve is required")),
	)
}

func (i *CreateInvestment) ValidateCreateInvestment() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.InvestmentType, validation.Required),
		validation.Field(&i.Amount, validation.By(positiveAmount)),
		validation.Field(&i.Duration, validation.Required, validation.Min(1)),
	)
}

// ToAccountType defaults to a checking account.
func (a *CreateAccount) ToAccountType() model.AccountType {
	if a.Type == "" {
		return model.AccountTypeChecking
	}
	return model.AccountType(a.Type)
}

func (d *RecordDeposit) ToDepositRequest() purse.DepositRequest {
	return purse.DepositRequest{AccountID: d.AccountID, Amount: d.Amount, Description: d.Description, Reference: d.Reference}
}

func (w *RecordWithdrawal) ToWithdrawalRequest() purse.WithdrawalRequest {
	return purse.WithdrawalRequest{AccountID: w.AccountID, Amount: w.Amount, Description: w.Description, Reference: w.Reference}
}

func (t *RecordTransfer) ToTransferRequest() purse.TransferRequest {
	return purse.TransferRequest{
		FromAccountID:   t.FromAccountID,
		ToAccountNumber: t.ToAccountNumber,
		Amount:          t.Amount,
		Description:     t.Description,
		Reference:       t.Reference,
	}
}

func (b *PayBill) ToBillPaymentRequest() purse.BillPaymentRequest {
	return purse.BillPaymentRequest{
		AccountID:  b.AccountID,
		Amount:     b.Amount,
		BillType:   b.BillType,
		BillerName: b.BillerName,
		BillNumber: b.BillNumber,
		Reference:  b.Reference,
	}
}

func (l *ApplyForLoan) ToLoanApplication() purse.LoanApplication {
	return purse.LoanApplication{
		LoanType:   l.LoanType,
		Amount:     l.Amount,
		Purpose:    l.Purpose,
		Income:     l.Income,
		Employment: l.Employment,
	}
}

func (i *CreateInvestment) ToInvestmentRequest() purse.InvestmentRequest {
	return purse.InvestmentRequest{InvestmentType: i.InvestmentType, Amount: i.Amount, Duration: i.Duration}
}
