package worker

// email_worker.go processes QueueEmail: task assignment and request reply
// notifications sent over SMTP.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"workforce/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type sender interface {
	Send(to, subject, body string) error
}

type EmailWorker struct {
	mailer sender
}

// NewEmailWorker accepts a nil mailer: jobs are then logged and dropped.
func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	w := &EmailWorker{}
	if mailer != nil {
		w.mailer = mailer
	}
	return w
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// retrying cannot fix a bad payload
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}
	if w.mailer == nil {
		log.Info().Str("to", payload.ToEmail).Str("subject", payload.Subject).Msg("email_worker: SMTP disabled, dropping notification")
		return nil
	}

	if err := w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body); err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			return fmt.Errorf("email_worker: smtp unavailable: %w", err)
		}
		return err
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: notification sent")
	return nil
}
