// Package client is a Go client for the TeamForge messaging API. It keeps one
// local view per open thread so a message being sent shows up immediately
// and is swapped for the stored record once the server acknowledges it.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"teamforge/server/internal/conversation"
	"teamforge/server/internal/models"

	"github.com/gofiber/fiber/v2"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

var ErrNotLoggedIn = errors.New("client: not logged in")

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type Client struct {
	baseURL string
	http    *fiber.Client
	timeout time.Duration

	mu      sync.Mutex
	token   string
	userID  string
	threads map[string]*conversation.Thread
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &fiber.Client{},
		timeout: defaultTimeout,
		threads: make(map[string]*conversation.Thread),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserID returns the id of the logged-in user.
func (c *Client) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// Login exchanges credentials for an access token.
func (c *Client) Login(email, password string) error {
	var out struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(fiber.MethodPost, "/api/v1/auth/login", body, &out, false); err != nil {
		return err
	}

	c.mu.Lock()
	c.userID = out.User.ID
	c.token = out.Token
	c.mu.Unlock()
	return nil
}

// Conversations returns the inbox, one entry per counterpart.
func (c *Client) Conversations() ([]models.Conversation, error) {
	var out []models.Conversation
	if err := c.do(fiber.MethodGet, "/api/v1/messages", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// OpenThread fetches the thread with userID and returns the local view:
// the stored messages followed by the pending one, if a send is in flight.
func (c *Client) OpenThread(userID string) (models.Thread, error) {
	var out models.Thread
	if err := c.do(fiber.MethodGet, "/api/v1/messages/"+url.PathEscape(userID), nil, &out, true); err != nil {
		return models.Thread{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	thread, ok := c.threads[userID]
	if !ok {
		thread = conversation.NewThread(out.Messages)
		c.threads[userID] = thread
	} else {
		thread.Refresh(out.Messages)
	}
	out.Messages = thread.Messages()
	return out, nil
}

// Messages returns the current local view of the thread with userID.
func (c *Client) Messages(userID string) []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if thread, ok := c.threads[userID]; ok {
		return thread.Messages()
	}
	return []models.Message{}
}

// Send stages content in the thread's pending slot, posts it and reconciles
// the slot with the server's answer. Only one send per thread may be in flight.
func (c *Client) Send(userID, content string) (models.Message, error) {
	c.mu.Lock()
	if c.token == "" {
		c.mu.Unlock()
		return models.Message{}, ErrNotLoggedIn
	}
	thread, ok := c.threads[userID]
	if !ok {
		thread = conversation.NewThread(nil)
		c.threads[userID] = thread
	}
	nonce, err := thread.Stage(models.Message{
		SenderID:   c.userID,
		ReceiverID: userID,
		Content:    content,
		CreatedAt:  time.Now(),
	})
	c.mu.Unlock()
	if err != nil {
		return models.Message{}, err
	}

	var out struct {
		Message     models.Message `json:"message"`
		ClientNonce string         `json:"clientNonce"`
	}
	body := map[string]string{"content": content, "client_nonce": nonce}
	err = c.do(fiber.MethodPost, "/api/v1/messages/"+url.PathEscape(userID), body, &out, true)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		thread.Discard(nonce)
		return models.Message{}, err
	}
	ack := out.ClientNonce
	if ack == "" {
		ack = nonce
	}
	if !thread.Confirm(ack, out.Message) {
		thread.Discard(nonce)
		return out.Message, fmt.Errorf("client: acknowledgement for unknown nonce %q", ack)
	}
	return out.Message, nil
}

func (c *Client) do(method, path string, in, out any, authed bool) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if authed && token == "" {
		return ErrNotLoggedIn
	}

	u := c.baseURL + path
	var agent *fiber.Agent
	switch method {
	case fiber.MethodPost:
		agent = c.http.Post(u)
	case fiber.MethodPut:
		agent = c.http.Put(u)
	case fiber.MethodPatch:
		agent = c.http.Patch(u)
	case fiber.MethodDelete:
		agent = c.http.Delete(u)
	default:
		agent = c.http.Get(u)
	}
	agent.Timeout(c.timeout)

	if authed {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if in != nil {
		agent.JSON(in)
	}

	code, raw, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s %s: decode response (status %d): %w", method, path, code, err)
	}
	if code < 200 || code >= 300 || !env.Success {
		return &APIError{Status: code, Message: env.Error}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: decode data: %w", method, path, err)
	}
	return nil
}
