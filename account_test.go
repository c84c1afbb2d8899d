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
	"net/http"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jarcoal/httpmock"
	"github.com/jerry-enebeli/purse/config"
	"github.com/jerry-enebeli/purse/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceNumbers returns the given numbers in order and repeats the last one.
func sequenceNumbers(numbers ...string) func(context.Context) (string, error) {
	i := 0
	return func(context.Context) (string, error) {
		number := numbers[i]
		if i < len(numbers)-1 {
			i++
		}
		return number, nil
	}
}

func TestCreateAccount(t *testing.T) {
	p := newTestPurse(t)
	owner := gofakeit.UUID()

	account, err := p.CreateAccount(context.Background(), owner, model.AccountTypeSavings)
	require.NoError(t, err)

	assert.Contains(t, account.AccountID, "acc_")
	assert.Equal(t, owner, account.OwnerID)
	assert.Equal(t, model.AccountTypeSavings, account.Type)
	assert.Regexp(t, `^[0-9]{10}$`, account.Number)
	assert.True(t, account.Balance.IsZero())
	assert.True(t, account.Active)
	assert.False(t, account.CreatedAt.IsZero())
}

func TestCreateAccount_InvalidType(t *testing.T) {
	p := newTestPurse(t)

	_, err := p.CreateAccount(context.Background(), gofakeit.UUID(), model.AccountType("crypto"))
	assert.ErrorIs(t, err, ErrInvalidAccountType)
}

func TestCreateAccount_RetriesTakenNumber(t *testing.T) {
	p := newTestPurse(t)
	p.numbers = sequenceNumbers("1111111111", "1111111111", "2222222222")

	first, err := p.CreateAccount(context.Background(), gofakeit.UUID(), model.AccountTypeChecking)
	require.NoError(t, err)
	assert.Equal(t, "1111111111", first.Number)

	second, err := p.CreateAccount(context.Background(), gofakeit.UUID(), model.AccountTypeChecking)
	require.NoError(t, err)
	assert.Equal(t, "2222222222", second.Number)
}

func TestCreateAccount_RetriesExhausted(t *testing.T) {
	p := newTestPurse(t)
	p.numbers = sequenceNumbers("3333333333")
	p.maxNumberRetries = 2

	_, err := p.CreateAccount(context.Background(), gofakeit.UUID(), model.AccountTypeChecking)
	require.NoError(t, err)

	_, err = p.CreateAccount(context.Background(), gofakeit.UUID(), model.AccountTypeChecking)
	assert.ErrorIs(t, err, ErrDuplicateAccountNumber)
}

func TestCreateAccount_GeneratorFailureIsFinal(t *testing.T) {
	p := newTestPurse(t)
	calls := 0
	p.numbers = func(context.Context) (string, error) {
		calls++
		return "", errors.New("generator down")
	}

	_, err := p.CreateAccount(context.Background(), gofakeit.UUID(), model.AccountTypeChecking)
	assert.EqualError(t, err, "generator down")
	assert.Equal(t, 1, calls)
}

func TestCreateAccount_ExternalNumberService(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	cnf := &config.Configuration{}
	cnf.AccountNumberGeneration.EnableAutoGeneration = true
	cnf.AccountNumberGeneration.HttpService.Url = "http://numbers.example.com/next"
	cnf.AccountNumberGeneration.HttpService.Headers.Authorization = "Bearer token"
	config.MockConfig(cnf)
	defer config.MockConfig(&config.Configuration{})

	httpmock.RegisterResponder(http.MethodGet, "http://numbers.example.com/next",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer token", req.Header.Get("Authorization"))
			return httpmock.NewJsonResponse(http.StatusOK, map[string]string{"account_number": "5555555555"})
		})

	p := newTestPurseWithCurrentConfig(t)
	account, err := p.CreateAccount(context.Background(), gofakeit.UUID(), model.AccountTypeBusiness)
	require.NoError(t, err)
	assert.Equal(t, "5555555555", account.Number)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestCreateAccount_ExternalNumberServiceFailures(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
	}{
		{
			name:      "server error",
			responder: httpmock.NewStringResponder(http.StatusBadGateway, `{"error":"down"}`),
		},
		{
			name:      "malformed number",
			responder: httpmock.NewStringResponder(http.StatusOK, `{"account_number":"12-34"}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.Activate()
			defer httpmock.DeactivateAndReset()

			cnf := &config.Configuration{}
			cnf.AccountNumberGeneration.EnableAutoGeneration = true
			cnf.AccountNumberGeneration.HttpService.Url = "http://numbers.example.com/next"
			config.MockConfig(cnf)
			defer config.MockConfig(&config.Configuration{})

			httpmock.RegisterResponder(http.MethodGet, "http://numbers.example.com/next", tt.responder)

			p := newTestPurseWithCurrentConfig(t)
			_, err := p.CreateAccount(context.Background(), gofakeit.UUID(), model.AccountTypeChecking)
			assert.Error(t, err)
		})
	}
}

func TestOnboardOwner(t *testing.T) {
	p := newTestPurse(t)
	owner := gofakeit.UUID()

	first, err := p.OnboardOwner(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, model.AccountTypeChecking, first.Type)

	again, err := p.OnboardOwner(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, first.AccountID, again.AccountID)

	accounts, err := p.GetAccounts(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestGetAccounts(t *testing.T) {
	p := newTestPurse(t)
	owner := gofakeit.UUID()
	checking := openAccount(t, p, owner, "0")
	savings, err := p.CreateAccount(context.Background(), owner, model.AccountTypeSavings)
	require.NoError(t, err)
	openAccount(t, p, gofakeit.UUID(), "0")

	accounts, err := p.GetAccounts(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, checking.AccountID, accounts[0].AccountID)
	assert.Equal(t, savings.AccountID, accounts[1].AccountID)
}

func TestGetAccount(t *testing.T) {
	p := newTestPurse(t)
	owner := gofakeit.UUID()
	account := openAccount(t, p, owner, "12.50")

	found, err := p.GetAccount(context.Background(), owner, account.AccountID)
	require.NoError(t, err)
	assert.True(t, found.Balance.Equal(amount("12.50")))

	_, err = p.GetAccount(context.Background(), gofakeit.UUID(), account.AccountID)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = p.GetAccount(context.Background(), owner, "acc_missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestDeactivateAccount(t *testing.T) {
	p := newTestPurse(t)
	owner := gofakeit.UUID()
	account := openAccount(t, p, owner, "20")

	deactivated, err := p.DeactivateAccount(context.Background(), owner, account.AccountID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)
	assert.True(t, deactivated.Balance.Equal(amount("20")))

	accounts, err := p.GetAccounts(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	// still visible to its owner
	found, err := p.GetAccount(context.Background(), owner, account.AccountID)
	require.NoError(t, err)
	assert.False(t, found.Active)

	_, err = p.Deposit(context.Background(), owner, DepositRequest{AccountID: account.AccountID, Amount: amount("1")})
	assert.ErrorIs(t, err, ErrAccountNotFound)
	_, err = p.Withdraw(context.Background(), owner, WithdrawalRequest{AccountID: account.AccountID, Amount: amount("1")})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = p.DeactivateAccount(context.Background(), owner, account.AccountID)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestDeactivateAccount_OtherOwner(t *testing.T) {
	p := newTestPurse(t)
	account := openAccount(t, p, "owner_1", "0")

	_, err := p.DeactivateAccount(context.Background(), "owner_2", account.AccountID)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	found, err := p.GetAccount(context.Background(), "owner_1", account.AccountID)
	require.NoError(t, err)
	assert.True(t, found.Active)
}
