package consumer

import (
	"context"
	"errors"
	"net/http"

	"go-payroll/internal/shared/apperror"

	kafkago "github.com/segmentio/kafka-go"
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// isPermanent reports whether redelivering the message can never succeed.
// Client side domain errors are permanent, except a lock held by another
// worker.
func isPermanent(err error) bool {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.HTTPStatus >= 400 && appErr.HTTPStatus < 500 && appErr.HTTPStatus != http.StatusLocked
}
