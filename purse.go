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

// Package purse is the ledger engine of a personal banking service. It moves
// money between accounts, keeps the transaction trail and serves the owner
// dashboard.
package purse

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jerry-enebeli/purse/config"
	"github.com/jerry-enebeli/purse/database"
	redis_db "github.com/jerry-enebeli/purse/internal/redis-db"
	"github.com/jerry-enebeli/purse/model"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("purse.ledger")

// Purse is the ledger engine. It is the only caller allowed to change
// balances or append postings.
type Purse struct {
	datasource database.IDataSource
	references referenceClaims
	queue      webhookEnqueuer
	numbers    func(ctx context.Context) (string, error)
	closers    []func() error

	maxNumberRetries int
}

// NewPurse initializes the engine over the provided datasource.
// When Redis is configured, references are claimed in Redis and webhooks are
// queued through asynq; otherwise claims stay in memory and webhooks are off.
//
// Parameters:
// - db database.IDataSource: The store for accounts, postings, loans and investments.
//
// Returns:
// - *Purse: A pointer to the newly created engine.
// - error: An error if the configuration is missing or Redis is unreachable.
func NewPurse(db database.IDataSource) (*Purse, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	p := &Purse{
		datasource:       db,
		maxNumberRetries: configuration.AccountNumberGeneration.MaxRetries,
	}
	p.numbers = p.nextAccountNumber

	ttl := time.Duration(configuration.Ledger.ReferenceTTLSec) * time.Second
	if configuration.Redis.Dns == "" {
		p.references = newMemoryReferences(ttl)
		return p, nil
	}

	redisClient, err := redis_db.NewRedisClient(configuration.Redis.Dns, configuration.Redis.SkipTLSVerify)
	if err != nil {
		return nil, err
	}
	p.references = newRedisReferences(redisClient.Client(), ttl)
	p.closers = append(p.closers, redisClient.Close)

	if configuration.Notification.Webhook.Url != "" {
		opts, err := redis_db.AsynqOptions(configuration.Redis.Dns, configuration.Redis.SkipTLSVerify)
		if err != nil {
			return nil, err
		}
		client := asynq.NewClient(opts)
		p.queue = client
		p.closers = append(p.closers, client.Close)
	}

	return p, nil
}

// Close releases the Redis and queue connections.
func (p *Purse) Close() error {
	var firstErr error
	for _, closeFn := range p.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.closers = nil
	return firstErr
}

func logAndRecordError(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	logrus.WithError(err).Error(msg)
	return err
}

// Ledger error kinds, matched with errors.Is.
var (
	ErrInvalidAmount          = model.ErrInvalidAmount
	ErrAccountNotFound        = model.ErrAccountNotFound
	ErrInsufficientFunds      = model.ErrInsufficientFunds
	ErrSameAccount            = model.ErrSameAccount
	ErrDuplicateAccountNumber = model.ErrDuplicateAccountNumber
	ErrInvalidAccountType     = model.ErrInvalidAccountType
	ErrDuplicateReference     = model.ErrDuplicateReference
	ErrLoanNotFound           = model.ErrLoanNotFound
	ErrLoanAlreadyDecided     = model.ErrLoanAlreadyDecided
	ErrInvalidDuration        = model.ErrInvalidDuration
	ErrTransactionNotFound    = model.ErrTransactionNotFound
)
