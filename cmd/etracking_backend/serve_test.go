package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	portssvc "github.com/SscSPs/etracking_app/internal/core/ports/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closeRecorder stands in for the tracking service; only Close is called.
type closeRecorder struct {
	portssvc.TrackingSvcFacade
	closed int
	err    error
}

func (c *closeRecorder) Close(context.Context) error {
	c.closed++
	return c.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunServer_ListenFailureStillDrainsWrites(t *testing.T) {
	tracking := &closeRecorder{}
	srv := &http.Server{Addr: "127.0.0.1:-1", Handler: http.NotFoundHandler()}

	err := runServer(context.Background(), srv, tracking, discardLogger())

	require.Error(t, err)
	assert.Equal(t, 1, tracking.closed)
}

func TestRunServer_ListenFailureReportsDrainFailure(t *testing.T) {
	drainErr := errors.New("queue stuck")
	tracking := &closeRecorder{err: drainErr}
	srv := &http.Server{Addr: "127.0.0.1:-1", Handler: http.NotFoundHandler()}

	err := runServer(context.Background(), srv, tracking, discardLogger())

	assert.ErrorIs(t, err, drainErr)
	assert.Equal(t, 1, tracking.closed)
}

func TestRunServer_CancelDrainsWrites(t *testing.T) {
	tracking := &closeRecorder{}
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runServer(ctx, srv, tracking, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, 1, tracking.closed)
}
