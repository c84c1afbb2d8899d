package notification

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/jerry-enebeli/purse/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const slackURL = "https://hooks.slack.test/services/T000/B000/XXXX"

func TestSlackPayload(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	msg := slackPayload("Purse Server", errors.New("webhook enqueue failed"), at)

	require.Len(t, msg.Blocks, 3)
	assert.Equal(t, "Error From Purse Server", msg.Blocks[0].Text.Text)
	assert.Equal(t, "*Error:*\nwebhook enqueue failed", msg.Blocks[1].Fields[0].Text)
	assert.Equal(t, "*Time:*\n"+at.Format(time.RFC822), msg.Blocks[2].Fields[0].Text)
}

func TestSlackNotification(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	var received slackMessage
	httpmock.RegisterResponder(http.MethodPost, slackURL, func(req *http.Request) (*http.Response, error) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, &received); err != nil {
			return nil, err
		}
		return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
	})

	err := SlackNotification(slackURL, "Purse Server", errors.New("boom"))
	require.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
	require.Len(t, received.Blocks, 3)
	assert.Equal(t, "*Error:*\nboom", received.Blocks[1].Fields[0].Text)
}

func TestSlackNotification_Rejected(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, slackURL, httpmock.NewStringResponder(http.StatusForbidden, "invalid_token"))

	err := SlackNotification(slackURL, "Purse Server", errors.New("boom"))
	assert.Error(t, err)
}

func TestNotify_SendsToSlackWhenConfigured(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder(http.MethodPost, slackURL, httpmock.NewStringResponder(http.StatusOK, "ok"))

	cnf := &config.Configuration{}
	cnf.Notification.Slack.WebhookUrl = slackURL
	config.MockConfig(cnf)

	notify(errors.New("boom"))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestNotify_SkipsSlackWhenNotConfigured(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	config.MockConfig(&config.Configuration{})

	notify(errors.New("boom"))
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}
