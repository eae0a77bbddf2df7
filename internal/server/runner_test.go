package server

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	_ "modernc.org/sqlite"

	"github.com/lidanthedev/Mirrarr/internal/download"
	"github.com/lidanthedev/Mirrarr/internal/download/mocks"
	"github.com/lidanthedev/Mirrarr/internal/events"
	"github.com/lidanthedev/Mirrarr/internal/metadata"
	"github.com/lidanthedev/Mirrarr/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)
	return db
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRunner(t *testing.T, cfg Config) (*Runner, *events.EventLog) {
	t.Helper()
	db := setupTestDB(t)
	eventLog := events.NewEventLog(db)

	ctrl := gomock.NewController(t)
	transfer := mocks.NewMockTransferer(ctrl)
	transfer.EXPECT().
		Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(filepath.Join("downloads", "file.mkv"), nil).
		AnyTimes()

	queue := download.NewQueue(transfer, nil, quietLogger())
	return NewRunner(queue, eventLog, metadata.NewCache(db), cfg, quietLogger()), eventLog
}

func TestRunner_StartsAndStops(t *testing.T) {
	runner, _ := newTestRunner(t, Config{
		Workers:       1,
		PruneInterval: 50 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx)
	}()

	// Give components time to start, then stop.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for runner to stop")
	}
}

func TestRunner_ProcessesSubmittedJobs(t *testing.T) {
	runner, _ := newTestRunner(t, Config{Workers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx)
	}()

	rec, err := runner.queue.Submit(download.Job{URL: "https://dl.example.com/file.mkv", Source: "vault"})
	require.NoError(t, err)

	deadline := time.Now().Add(2 * time.Second)
	for {
		got, err := runner.queue.Status(rec.ID)
		require.NoError(t, err)
		if got.Status == download.StatusCompleted {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("download never completed, status %s", got.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for runner to stop")
	}
}

func TestRunner_PrunesEvents(t *testing.T) {
	runner, eventLog := newTestRunner(t, Config{
		Workers:       1,
		PruneInterval: 20 * time.Millisecond,
		RetainEvents:  time.Millisecond,
	})

	queued := &events.DownloadQueued{
		BaseEvent: events.NewBaseEvent(events.EventDownloadQueued, events.EntityDownload, "job-1"),
		URL:       "https://example.com/a.mkv",
		Source:    "vault",
	}
	_, err := eventLog.Append(context.Background(), queued)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		recent, err := eventLog.Recent(context.Background(), 10)
		require.NoError(t, err)
		if len(recent) == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("old events were never pruned")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	<-done
}

func TestNewRunner_Defaults(t *testing.T) {
	runner, _ := newTestRunner(t, Config{})

	require.Equal(t, 2, runner.config.Workers)
	require.Equal(t, defaultPruneInterval, runner.config.PruneInterval)
	require.Equal(t, defaultRetainEvents, runner.config.RetainEvents)
	require.Equal(t, defaultShutdownTimeout, runner.config.ShutdownTimeout)
	require.NotNil(t, runner.logger)
}
