package discord

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chris/standup/internal/db"
	"github.com/chris/standup/internal/scheduler"
)

type fakeDM struct {
	to   []string
	sent []string
	err  error
}

func (f *fakeDM) SendDM(userID, content string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, userID)
	f.sent = append(f.sent, content)
	return nil
}

func webhookServer(t *testing.T, status int) (*httptest.Server, *[]string) {
	t.Helper()
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var payload struct {
			Content string `json:"content"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		got = append(got, payload.Content)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

var ready = scheduler.Notification{Title: "Daily summary ready", Body: "## Completed\n- x"}

func TestNotifyPrefersDM(t *testing.T) {
	srv, posted := webhookServer(t, http.StatusNoContent)
	dm := &fakeDM{}
	n := NewNotifier(dm, memSettings{db.KeyDiscordUserID: "42"}, srv.URL, zap.NewNop().Sugar())

	require.NoError(t, n.Notify(context.Background(), ready))
	assert.Equal(t, []string{"42"}, dm.to)
	assert.Equal(t, []string{"**Daily summary ready**\n## Completed\n- x"}, dm.sent)
	assert.Empty(t, *posted)
}

func TestNotifyFallsBackToWebhook(t *testing.T) {
	srv, posted := webhookServer(t, http.StatusNoContent)

	// No known DM user.
	n := NewNotifier(&fakeDM{}, memSettings{}, srv.URL, zap.NewNop().Sugar())
	require.NoError(t, n.Notify(context.Background(), scheduler.Notification{Title: "Time for a quick update"}))
	assert.Equal(t, []string{"**Time for a quick update**"}, *posted)

	// DM fails.
	n = NewNotifier(&fakeDM{err: errors.New("blocked")}, memSettings{db.KeyDiscordUserID: "42"}, srv.URL, zap.NewNop().Sugar())
	require.NoError(t, n.Notify(context.Background(), ready))
	assert.Len(t, *posted, 2)

	// No bot at all.
	n = NewNotifier(nil, memSettings{}, srv.URL, zap.NewNop().Sugar())
	require.NoError(t, n.Notify(context.Background(), ready))
	assert.Len(t, *posted, 3)
}

func TestNotifyWebhookError(t *testing.T) {
	srv, _ := webhookServer(t, http.StatusBadRequest)
	n := NewNotifier(nil, memSettings{}, srv.URL, zap.NewNop().Sugar())

	err := n.Notify(context.Background(), ready)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestNotifyWithoutDelivery(t *testing.T) {
	n := NewNotifier(nil, memSettings{}, "", zap.NewNop().Sugar())
	assert.ErrorIs(t, n.Notify(context.Background(), ready), ErrNoDelivery)
}
