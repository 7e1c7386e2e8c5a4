package service

import (
	"context"
	"time"
)

// Notifier queues an email for asynchronous delivery.
type Notifier interface {
	EnqueueEmail(ctx context.Context, to, subject, body string) error
}

// TokenRevoker remembers logged-out session ids until they would expire anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) EnqueueEmail(context.Context, string, string, string) error { return nil }

// TimesheetRenderer turns a monthly timesheet into a printable document.
type TimesheetRenderer interface {
	RenderTimesheet(ts Timesheet) ([]byte, error)
}
