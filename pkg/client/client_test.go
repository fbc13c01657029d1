package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"teamforge/server/internal/apperr"
	"teamforge/server/internal/models"

	"github.com/stretchr/testify/require"
)

const (
	me    = "me"
	alice = "alice"
)

// fakeServer is an in-memory stand-in for the messages API.
type fakeServer struct {
	mu       sync.Mutex
	stored   []models.Message
	failSend bool
	gate     chan struct{}
}

func (f *fakeServer) write(w http.ResponseWriter, status int, data any, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"success": errMsg == ""}
	if errMsg != "" {
		body["error"] = errMsg
	} else {
		body["data"] = data
	}
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/auth/login":
		f.write(w, http.StatusOK, map[string]any{
			"user":  models.User{ID: me, Email: "me@example.com"},
			"token": "tok",
		}, "")
		return
	case r.Header.Get("Authorization") != "Bearer tok":
		f.write(w, http.StatusUnauthorized, nil, "Unauthorized - Invalid token")
		return
	}

	peer := strings.TrimPrefix(r.URL.Path, "/api/v1/messages/")
	switch r.Method {
	case http.MethodGet:
		f.mu.Lock()
		msgs := append([]models.Message{}, f.stored...)
		f.mu.Unlock()
		f.write(w, http.StatusOK, models.Thread{Messages: msgs}, "")
	case http.MethodPost:
		var in struct {
			Content     string `json:"content"`
			ClientNonce string `json:"client_nonce"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		if f.failSend {
			f.write(w, http.StatusInternalServerError, nil, "Internal server error")
			return
		}

		f.mu.Lock()
		stored := models.Message{
			ID:          "m" + string(rune('0'+len(f.stored)+1)),
			Seq:         int64(len(f.stored) + 1),
			SenderID:    me,
			ReceiverID:  peer,
			Content:     in.Content,
			CreatedAt:   time.Now().UTC(),
			ClientNonce: in.ClientNonce,
		}
		f.stored = append(f.stored, stored)
		f.mu.Unlock()

		// The row is committed; only the response is held back.
		if f.gate != nil {
			<-f.gate
		}
		f.write(w, http.StatusCreated, map[string]any{
			"message":     stored,
			"clientNonce": in.ClientNonce,
		}, "")
	}
}

func newLoggedIn(t *testing.T, fake *fakeServer) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c := New(srv.URL, WithTimeout(5*time.Second))
	require.NoError(t, c.Login("me@example.com", "secret-password"))
	require.Equal(t, me, c.UserID())
	return c
}

func TestClient_SendConfirmsPendingMessage(t *testing.T) {
	req := require.New(t)
	c := newLoggedIn(t, &fakeServer{})

	stored, err := c.Send(alice, "hello")
	req.NoError(err)
	req.Equal("m1", stored.ID)

	msgs := c.Messages(alice)
	req.Len(msgs, 1)
	req.Equal(stored, msgs[0])
}

func TestClient_ReopenDoesNotDuplicate(t *testing.T) {
	req := require.New(t)
	c := newLoggedIn(t, &fakeServer{})

	_, err := c.Send(alice, "hello")
	req.NoError(err)

	for range 3 {
		thread, err := c.OpenThread(alice)
		req.NoError(err)
		req.Len(thread.Messages, 1)
	}
}

func TestClient_FailedSendDiscardsPending(t *testing.T) {
	req := require.New(t)
	c := newLoggedIn(t, &fakeServer{failSend: true})

	_, err := c.Send(alice, "hello")

	var apiErr *APIError
	req.ErrorAs(err, &apiErr)
	req.Equal(http.StatusInternalServerError, apiErr.Status)
	req.Empty(c.Messages(alice))
}

func TestClient_PendingVisibleWhileInFlight(t *testing.T) {
	req := require.New(t)
	fake := &fakeServer{gate: make(chan struct{})}
	c := newLoggedIn(t, fake)

	done := make(chan error, 1)
	go func() {
		_, err := c.Send(alice, "first")
		done <- err
	}()

	req.Eventually(func() bool { return len(c.Messages(alice)) == 1 }, 2*time.Second, 10*time.Millisecond)
	pending := c.Messages(alice)[0]
	req.Empty(pending.ID)
	req.Equal("first", pending.Content)

	_, err := c.Send(alice, "second")
	req.ErrorIs(err, apperr.ErrPendingInFlight)

	close(fake.gate)
	req.NoError(<-done)

	msgs := c.Messages(alice)
	req.Len(msgs, 1)
	req.Equal("m1", msgs[0].ID)
}

func TestClient_ReopenWhileSendInFlight(t *testing.T) {
	req := require.New(t)
	fake := &fakeServer{gate: make(chan struct{})}
	c := newLoggedIn(t, fake)

	done := make(chan error, 1)
	go func() {
		_, err := c.Send(alice, "hello")
		done <- err
	}()

	req.Eventually(func() bool {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		return len(fake.stored) == 1
	}, 2*time.Second, 10*time.Millisecond)

	thread, err := c.OpenThread(alice)
	req.NoError(err)
	req.Len(thread.Messages, 1)
	req.Equal("m1", thread.Messages[0].ID)

	close(fake.gate)
	req.NoError(<-done)

	msgs := c.Messages(alice)
	req.Len(msgs, 1)
	req.Equal("m1", msgs[0].ID)
}

func TestClient_RequiresLogin(t *testing.T) {
	c := New("http://127.0.0.1:1")

	_, err := c.Conversations()
	require.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = c.Send(alice, "hi")
	require.ErrorIs(t, err, ErrNotLoggedIn)
}
