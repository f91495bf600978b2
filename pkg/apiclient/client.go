package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	connectdomain "prepconnect_service/internal/connect/domain"
	"prepconnect_service/internal/message/domain"
)

// Client 呼叫 message_service 的 REST API
// polling Manager 的 fetch 可以直接掛這裡的方法
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient create a Client, token 是登入拿到的 JWT
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SendMessage POST /messages
func (c *Client) SendMessage(ctx context.Context, recipientID, content string) (*domain.Message, error) {
	body := map[string]string{"recipientId": recipientID, "content": content}
	var resp struct {
		Message *domain.Message `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/messages", body, &resp); err != nil {
		return nil, err
	}
	return resp.Message, nil
}

// GetMessages GET /messages/:conversationId
func (c *Client) GetMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	var resp struct {
		Messages []domain.Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/messages/"+conversationID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// GetConversations GET /conversations/:userId
func (c *Client) GetConversations(ctx context.Context, userID string) ([]domain.ConversationView, error) {
	var resp struct {
		Conversations []domain.ConversationView `json:"conversations"`
	}
	if err := c.do(ctx, http.MethodGet, "/conversations/"+userID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

// GetConnectionRequests GET /connection-requests/:userId
func (c *Client) GetConnectionRequests(ctx context.Context, userID string) ([]connectdomain.ConnectionRequest, error) {
	var resp struct {
		Requests []connectdomain.ConnectionRequest `json:"requests"`
	}
	if err := c.do(ctx, http.MethodGet, "/connection-requests/"+userID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Requests, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&apiErr)
		return fmt.Errorf("%s %s: status %d: %s", method, path, res.StatusCode, apiErr.Error)
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
