package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
)

// Mailer delivers a single message; the SMTP implementation lives in
// mailer.go.
type Mailer interface {
	Send(to, subject, body string) error
}

// NewWorker builds the asynq consumer for the email queue.
func NewWorker(redisAddr string, mailer Mailer) (*asynq.Server, *asynq.ServeMux) {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{Concurrency: 10},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeConfirmationCodeEmail, func(ctx context.Context, task *asynq.Task) error {
		var payload ConfirmationCodePayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal %s: %v: %w", task.Type(), err, asynq.SkipRetry)
		}
		return mailer.Send(payload.Email,
			"Confirmation code",
			fmt.Sprintf("Your confirmation code is %d.", payload.Code))
	})
	mux.HandleFunc(TypeConfirmationLinkEmail, func(ctx context.Context, task *asynq.Task) error {
		var payload ConfirmationLinkPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal %s: %v: %w", task.Type(), err, asynq.SkipRetry)
		}
		return mailer.Send(payload.Email,
			"Confirm your email",
			fmt.Sprintf("Hi %s, confirm your email by following this link: %s", payload.Username, payload.Link))
	})
	mux.HandleFunc(TypeRecoveryEmail, func(ctx context.Context, task *asynq.Task) error {
		var payload RecoveryPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal %s: %v: %w", task.Type(), err, asynq.SkipRetry)
		}
		return mailer.Send(payload.Email,
			"Password recovery",
			fmt.Sprintf("Hi %s, reset your password by following this link: %s", payload.Username, payload.Link))
	})

	return server, mux
}

// RunWorker starts the consumer; call from a goroutine at process start.
func RunWorker(server *asynq.Server, mux *asynq.ServeMux) {
	if err := server.Run(mux); err != nil {
		log.Printf("email worker stopped: %v", err)
	}
}
