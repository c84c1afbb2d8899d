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
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jerry-enebeli/purse/config"
	"github.com/jerry-enebeli/purse/internal/request"
	"github.com/jerry-enebeli/purse/model"
	"go.opentelemetry.io/otel/attribute"
)

var accountNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)

// nextAccountNumber draws a candidate account number. When auto generation is
// enabled the number comes from the configured HTTP service, otherwise it is
// drawn locally.
func (p *Purse) nextAccountNumber(ctx context.Context) (string, error) {
	type accountDetails struct {
		AccountNumber string `json:"account_number"`
	}

	cnf, err := config.Fetch()
	if err != nil {
		return "", err
	}

	service := cnf.AccountNumberGeneration.HttpService
	if !cnf.AccountNumberGeneration.EnableAutoGeneration || service.Url == "" {
		return model.GenerateAccountNumber(), nil
	}

	if service.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(service.Timeout)*time.Second)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, service.Url, nil)
	if err != nil {
		return "", err
	}
	if service.Headers.Authorization != "" {
		req.Header.Set("Authorization", service.Headers.Authorization)
	}

	var response accountDetails
	if _, err := request.Call(req, &response); err != nil {
		return "", fmt.Errorf("account number service: %w", err)
	}
	if !accountNumberPattern.MatchString(response.AccountNumber) {
		return "", fmt.Errorf("account number service returned %q, want 10 digits", response.AccountNumber)
	}
	return response.AccountNumber, nil
}

// createAccount opens an account with a fresh number. A number that is already
// taken is redrawn up to the configured retry count; any other failure is final.
func (p *Purse) createAccount(ctx context.Context, ownerID string, accountType model.AccountType) (model.Account, error) {
	var account model.Account
	operation := func() error {
		number, err := p.numbers(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		account, err = p.datasource.CreateAccount(ownerID, accountType, number)
		if errors.Is(err, model.ErrDuplicateAccountNumber) {
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(p.maxNumberRetries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return model.Account{}, err
	}
	return account, nil
}

// CreateAccount opens an account of the given type for an owner.
//
// Parameters:
// - ctx context.Context: The context for the operation.
// - ownerID string: The authenticated owner.
// - accountType model.AccountType: checking, savings or business.
//
// Returns:
// - *model.Account: The new account with a zero balance.
// - error: ErrInvalidAccountType, or an error if no free account number could be drawn.
func (p *Purse) CreateAccount(ctx context.Context, ownerID string, accountType model.AccountType) (*model.Account, error) {
	ctx, span := tracer.Start(ctx, "Creating account")
	defer span.End()

	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAccountType, accountType)
	}

	account, err := p.createAccount(ctx, ownerID, accountType)
	if err != nil {
		return nil, logAndRecordError(span, "create account error", err)
	}
	span.SetAttributes(attribute.String("account.id", account.AccountID))

	p.postActions(EventAccountCreated, account)
	return &account, nil
}

// OnboardOwner gives a new owner their default checking account. Owners that
// already hold an active account get their first one back instead.
func (p *Purse) OnboardOwner(ctx context.Context, ownerID string) (*model.Account, error) {
	accounts, err := p.datasource.GetActiveAccountsByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if len(accounts) > 0 {
		return &accounts[0], nil
	}
	return p.CreateAccount(ctx, ownerID, model.AccountTypeChecking)
}

// GetAccounts lists the owner's active accounts in creation order.
func (p *Purse) GetAccounts(_ context.Context, ownerID string) ([]model.Account, error) {
	return p.datasource.GetActiveAccountsByOwner(ownerID)
}

// GetAccount returns one of the owner's accounts, active or not. Accounts of
// other owners are reported as not found.
func (p *Purse) GetAccount(_ context.Context, ownerID, accountID string) (*model.Account, error) {
	account, err := p.datasource.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	if account.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: account with ID '%s'", ErrAccountNotFound, accountID)
	}
	return account, nil
}

// DeactivateAccount soft deletes an active account of the owner. The balance
// and history are kept; the account can no longer be used in operations.
func (p *Purse) DeactivateAccount(ctx context.Context, ownerID, accountID string) (*model.Account, error) {
	_, span := tracer.Start(ctx, "Deactivating account")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))

	lease, err := p.datasource.Lease(accountID)
	if err != nil {
		return nil, logAndRecordError(span, "lease error", err)
	}
	defer lease.Release()

	account, err := lease.Account(accountID)
	if err != nil {
		return nil, err
	}
	if !account.OwnedBy(ownerID) {
		return nil, fmt.Errorf("%w: account with ID '%s'", ErrAccountNotFound, accountID)
	}
	if err := p.datasource.DeactivateAccount(lease, accountID); err != nil {
		return nil, logAndRecordError(span, "deactivate account error", err)
	}
	account.Active = false
	lease.Release()

	p.postActions(EventAccountDeactivated, account)
	return &account, nil
}
