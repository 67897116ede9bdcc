package kafka_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"go-payroll/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRepository_CreateInTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	event, err := kafka.NewOutboxEvent("req-1", "payroll", "p-1", "payroll_paid", "erp.payroll.paid.v1", map[string]string{"net_salary": "100.00"})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).
		WithArgs(event.ID, "req-1", "payroll", "p-1", "payroll_paid", "erp.payroll.paid.v1", []byte(`{"net_salary":"100.00"}`), kafka.OutboxStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	repo := kafka.NewOutboxRepository(db)
	require.NoError(t, repo.WithTx(tx).Create(context.Background(), event))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "aggregate_type", "aggregate_id", "event_type",
		"topic", "payload", "status", "retry_count", "next_retry_at",
	}).
		AddRow("ev-1", "", "payroll_run", "run-1", "payroll_run_requested", "erp.payroll.run.requested.v1", []byte(`{}`), "pending", 0, now).
		AddRow("ev-2", "req-2", "payroll", "p-2", "payroll_paid", "erp.payroll.paid.v1", []byte(`{}`), "failed", 3, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM outbox_events")).
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, kafka.OutboxMaxRetries, 20).
		WillReturnRows(rows)

	repo := kafka.NewOutboxRepository(db)
	events, err := repo.ListPending(context.Background(), 20)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "run-1", events[0].AggregateID)
	assert.Equal(t, 3, events[1].RetryCount)
	assert.Equal(t, "req-2", events[1].RequestID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox_events")).
		WithArgs("ev-1", kafka.OutboxStatusFailed, "timeout").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := kafka.NewOutboxRepository(db)
	assert.NoError(t, repo.MarkFailed(context.Background(), "ev-1", "timeout"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{ID: "1", Topic: "t", Payload: []byte("{}"), Status: kafka.OutboxStatusPending}
	assert.NoError(t, kafka.ValidateOutboxEvent(valid))

	bad := valid
	bad.Status = "queued"
	assert.EqualError(t, kafka.ValidateOutboxEvent(bad), "invalid outbox status: queued")

	empty := valid
	empty.Payload = nil
	assert.EqualError(t, kafka.ValidateOutboxEvent(empty), "outbox payload is required")
}

func TestOutboxRepository_PurgeSent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cutoff := time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM outbox_events WHERE status = $1 AND processed_at < $2")).
		WithArgs(kafka.OutboxStatusSent, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 12))

	repo := kafka.NewOutboxRepository(db)
	n, err := repo.PurgeSent(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
