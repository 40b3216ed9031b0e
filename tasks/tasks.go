// Package tasks defines the background email jobs and their asynq plumbing.
// The jobs are fire-and-forget: the request path never waits on delivery.
package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/ivan-22-3-5/e-commerce/service"
)

const (
	TypeConfirmationCodeEmail = "email:confirmation_code"
	TypeConfirmationLinkEmail = "email:confirmation_link"
	TypeRecoveryEmail         = "email:password_recovery"
)

type ConfirmationCodePayload struct {
	Email string `json:"email"`
	Code  int    `json:"code"`
}

type ConfirmationLinkPayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Link     string `json:"link"`
}

type RecoveryPayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Link     string `json:"link"`
}

// Client enqueues email tasks onto the shared redis-backed queue.
type Client struct {
	inner *asynq.Client
}

var _ service.TaskQueue = (*Client)(nil)

func NewClient(redisAddr string) *Client {
	return &Client{inner: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

func (c *Client) Close() error {
	return c.inner.Close()
}

func (c *Client) EnqueueConfirmationCodeEmail(email string, code int) error {
	return c.enqueue(TypeConfirmationCodeEmail, ConfirmationCodePayload{Email: email, Code: code})
}

func (c *Client) EnqueueConfirmationLinkEmail(email, username, link string) error {
	return c.enqueue(TypeConfirmationLinkEmail, ConfirmationLinkPayload{Email: email, Username: username, Link: link})
}

func (c *Client) EnqueueRecoveryEmail(email, username, link string) error {
	return c.enqueue(TypeRecoveryEmail, RecoveryPayload{Email: email, Username: username, Link: link})
}

func (c *Client) enqueue(taskType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	_, err = c.inner.Enqueue(asynq.NewTask(taskType, data))
	return err
}
