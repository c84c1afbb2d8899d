/*
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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hibiken/asynq"
	"github.com/jerry-enebeli/purse/config"
	"github.com/jerry-enebeli/purse/internal/notification"
	"github.com/jerry-enebeli/purse/internal/request"
	"github.com/sirupsen/logrus"
)

// TaskTypeWebhook is the asynq task type for webhook deliveries.
const TaskTypeWebhook = "webhook:deliver"

const (
	EventDeposit            = "transaction.deposit"
	EventWithdrawal         = "transaction.withdrawal"
	EventTransfer           = "transaction.transfer"
	EventBillPayment        = "transaction.bill_payment"
	EventAccountCreated     = "account.created"
	EventAccountDeactivated = "account.deactivated"
	EventLoanApplied        = "loan.applied"
	EventLoanDecided        = "loan.decided"
	EventInvestmentCreated  = "investment.created"
)

const (
	webhookDeliveryAttempts  = 3
	webhookDeliveryTimeout   = 10 * time.Second
	webhookInitialRetryDelay = 200 * time.Millisecond
)

// NewWebhook represents the structure of a webhook notification.
type NewWebhook struct {
	Event   string      `json:"event"` // The event type that triggered the webhook.
	Payload interface{} `json:"data"`  // The data associated with the event.
}

type webhookEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// SendWebhook enqueues a webhook notification task. It is a no-op when no
// queue is configured.
func (p *Purse) SendWebhook(newWebhook NewWebhook) error {
	if p.queue == nil {
		return nil
	}
	conf, err := config.Fetch()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(newWebhook)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TaskTypeWebhook, payload)
	_, err = p.queue.Enqueue(task,
		asynq.Queue(conf.Queue.WebhookQueue),
		asynq.MaxRetry(conf.Queue.MaxRetryAttempts),
	)
	return err
}

// postActions emits the webhook for a completed operation. It must only be
// called after every lease has been released.
func (p *Purse) postActions(event string, payload interface{}) {
	if p.queue == nil {
		return
	}
	go func() {
		err := p.SendWebhook(NewWebhook{
			Event:   event,
			Payload: payload,
		})
		if err != nil {
			notification.NotifyError(err)
		}
	}()
}

// processHTTP posts one webhook to the configured URL. Transport errors and
// 5xx responses are retried with exponential backoff; other responses are final.
func processHTTP(ctx context.Context, data NewWebhook) error {
	conf, err := config.Fetch()
	if err != nil {
		return err
	}

	operation := func() error {
		payload, err := request.ToJsonReq(data)
		if err != nil {
			return backoff.Permanent(err)
		}

		reqCtx, cancel := context.WithTimeout(ctx, webhookDeliveryTimeout)
		defer cancel()
		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, conf.Notification.Webhook.Url, payload)
		if err != nil {
			return backoff.Permanent(err)
		}
		for key, value := range conf.Notification.Webhook.Headers {
			req.Header.Set(key, value)
		}

		_, err = request.Call(req, nil)
		var statusErr *request.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = webhookInitialRetryDelay
	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, webhookDeliveryAttempts-1), ctx))
}

// ProcessWebhook delivers a queued webhook. Returning an error lets asynq
// retry the task later.
func ProcessWebhook(ctx context.Context, task *asynq.Task) error {
	conf, err := config.Fetch()
	if err != nil {
		return err
	}
	if conf.Notification.Webhook.Url == "" {
		return nil
	}

	var payload NewWebhook
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logrus.Errorf("Error unmarshaling task payload: %v", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	logrus.Infof("Processing webhook: %s", payload.Event)
	return processHTTP(ctx, payload)
}
