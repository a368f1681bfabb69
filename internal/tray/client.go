package tray

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"watchhub/internal/session"
	"watchhub/pkg/models"
)

// Client talks to the api-server's session endpoints.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Session(ctx context.Context) (session.State, error) {
	var st session.State
	err := c.doJSON(ctx, http.MethodGet, "/session", nil, &st)
	return st, err
}

func (c *Client) Lookup(ctx context.Context, mediaID int) (session.State, error) {
	var st session.State
	err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/session/lookup/%d", mediaID), nil, &st)
	return st, err
}

func (c *Client) RequestLink(ctx context.Context, linkURL string) (models.LinkConfirmation, error) {
	var conf models.LinkConfirmation
	err := c.doJSON(ctx, http.MethodPost, "/session/links", map[string]string{"url": linkURL}, &conf)
	return conf, err
}

// ConfirmLink approves the pending confirmation and returns the URL the
// server released for opening.
func (c *Client) ConfirmLink(ctx context.Context, id string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/session/links/"+url.PathEscape(id)+"/confirm", nil, &resp)
	return resp.URL, err
}

func (c *Client) CancelLink(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPost, "/session/links/"+url.PathEscape(id)+"/cancel", nil, nil)
}

func (c *Client) Dismiss(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/session/confirmation", nil, nil)
}

// Events dials the server's WebSocket feed and hands each session event
// to fn until the connection dies.
func (c *Client) Events(fn func(session.Event)) error {
	wsURL, err := websocketURL(c.BaseURL, "/ws")
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var ev session.Event
		if err := json.Unmarshal(msg, &ev); err != nil || ev.Type == "" {
			continue
		}
		fn(ev)
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, path, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}
