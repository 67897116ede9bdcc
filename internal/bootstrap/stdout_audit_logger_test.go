package bootstrap_test

import (
	"context"
	"net/http"
	"testing"

	"go-payroll/internal/bootstrap"
	"go-payroll/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutAuditLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	var logger bootstrap.AuditLogger = bootstrap.NewStdoutAuditLogger(zap.New(core))
	ctx := contextutil.WithRequestID(context.Background(), "req-42")
	logger.Log(ctx, bootstrap.AuditLog{
		Action:  "SERVER_SHUTDOWN",
		Message: "payroll api is shutting down",
		Meta:    map[string]any{"cause": "context canceled"},
	})

	entries := logs.FilterMessage("audit event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "audit", entries[0].LoggerName)
	assert.Equal(t, "SERVER_SHUTDOWN", entries[0].ContextMap()["action"])
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
}

type recordingAudit struct {
	entries []bootstrap.AuditLog
}

func (r *recordingAudit) Log(_ context.Context, entry bootstrap.AuditLog) {
	r.entries = append(r.entries, entry)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	audit := &recordingAudit{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	err := bootstrap.Serve(ctx, handler, bootstrap.ServerConfig{Port: "0"}, audit)

	assert.NoError(t, err)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "SERVER_SHUTDOWN", audit.entries[0].Action)
	assert.Equal(t, "context canceled", audit.entries[0].Meta["cause"])

}
