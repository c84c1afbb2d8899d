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
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/hibiken/asynq"
	"github.com/jarcoal/httpmock"
	"github.com/jerry-enebeli/purse/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookURL = "http://hooks.example.com/purse"

func webhookConfig(redisAddr string) *config.Configuration {
	cnf := &config.Configuration{}
	cnf.Redis.Dns = redisAddr
	cnf.Notification.Webhook.Url = testWebhookURL
	cnf.Notification.Webhook.Headers = map[string]string{"X-Signature": "secret"}
	return cnf
}

func TestSendWebhook(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("an error '%s' occurred when starting miniredis", err)
	}
	defer mr.Close()

	config.MockConfig(webhookConfig(mr.Addr()))
	defer config.MockConfig(&config.Configuration{})

	p := newTestPurseWithCurrentConfig(t)
	require.NotNil(t, p.queue)

	err = p.SendWebhook(NewWebhook{Event: EventDeposit, Payload: map[string]string{"account_id": "acc_1"}})
	assert.NoError(t, err)

	tasks := mr.Keys()
	assert.NotEmpty(t, tasks)
	pending, err := mr.List("asynq:{" + config.DEFAULT_WEBHOOK_QUEUE + "}:pending")
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestSendWebhook_NoQueue(t *testing.T) {
	p := newTestPurse(t)
	assert.NoError(t, p.SendWebhook(NewWebhook{Event: EventDeposit}))
}

func TestOperationsQueueWebhooks(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	config.MockConfig(webhookConfig(mr.Addr()))
	defer config.MockConfig(&config.Configuration{})

	p := newTestPurseWithCurrentConfig(t)
	owner := gofakeit.UUID()
	account, err := p.CreateAccount(context.Background(), owner, "checking")
	require.NoError(t, err)
	_, err = p.Deposit(context.Background(), owner, DepositRequest{AccountID: account.AccountID, Amount: amount("10")})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		pending, err := mr.List("asynq:{" + config.DEFAULT_WEBHOOK_QUEUE + "}:pending")
		return err == nil && len(pending) == 2
	}, 2*time.Second, 20*time.Millisecond)
}

func TestProcessWebhook(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	config.MockConfig(webhookConfig("localhost:6379"))
	defer config.MockConfig(&config.Configuration{})

	var received NewWebhook
	httpmock.RegisterResponder(http.MethodPost, testWebhookURL,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "secret", req.Header.Get("X-Signature"))
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			if err := json.NewDecoder(req.Body).Decode(&received); err != nil {
				return nil, err
			}
			return httpmock.NewStringResponse(http.StatusOK, ""), nil
		})

	payload, err := json.Marshal(NewWebhook{Event: EventTransfer, Payload: map[string]string{"transaction_id": "txn_1"}})
	require.NoError(t, err)

	err = ProcessWebhook(context.Background(), asynq.NewTask(TaskTypeWebhook, payload))
	require.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
	assert.Equal(t, EventTransfer, received.Event)
	assert.Equal(t, map[string]interface{}{"transaction_id": "txn_1"}, received.Payload)
}

func TestProcessWebhook_MalformedPayloadSkipsRetry(t *testing.T) {
	config.MockConfig(webhookConfig("localhost:6379"))
	defer config.MockConfig(&config.Configuration{})

	err := ProcessWebhook(context.Background(), asynq.NewTask(TaskTypeWebhook, []byte("{not json")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestProcessWebhook_NoURLConfigured(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	config.MockConfig(&config.Configuration{})

	err := ProcessWebhook(context.Background(), asynq.NewTask(TaskTypeWebhook, []byte(`{"event":"transaction.deposit"}`)))
	assert.NoError(t, err)
	assert.Zero(t, httpmock.GetTotalCallCount())
}

func TestProcessHTTP_Retries(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int
		wantErr   bool
	}{
		{name: "server errors are retried", status: http.StatusServiceUnavailable, wantCalls: webhookDeliveryAttempts, wantErr: true},
		{name: "client errors are final", status: http.StatusBadRequest, wantCalls: 1, wantErr: true},
		{name: "success", status: http.StatusAccepted, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.Activate()
			defer httpmock.DeactivateAndReset()

			config.MockConfig(webhookConfig("localhost:6379"))
			defer config.MockConfig(&config.Configuration{})

			httpmock.RegisterResponder(http.MethodPost, testWebhookURL, httpmock.NewStringResponder(tt.status, `{}`))

			err := processHTTP(context.Background(), NewWebhook{Event: EventWithdrawal})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, httpmock.GetTotalCallCount())
		})
	}
}
