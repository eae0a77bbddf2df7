package events

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/lidanthedev/Mirrarr/internal/migrations"
)

// testEvent is a minimal event used across the package tests.
type testEvent struct {
	BaseEvent
	Message string `json:"message"`
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)
	return db
}

func TestEventLog_Append(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)
	ctx := context.Background()

	e := &testEvent{
		BaseEvent: NewBaseEvent("test.created", "download", "job-1"),
		Message:   "hello",
	}

	id, err := log.Append(ctx, e)
	require.NoError(t, err)
	assert.Positive(t, id)

	events, err := log.ForEntity(ctx, "download", "job-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Payload, `"message":"hello"`)
	assert.Equal(t, "test.created", events[0].EventType)
	assert.Equal(t, "download", events[0].EntityType)
	assert.Equal(t, "job-1", events[0].EntityID)
}

func TestEventLog_ForEntity(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)
	ctx := context.Background()

	for _, e := range []*testEvent{
		{BaseEvent: NewBaseEvent("test.one", "download", "a"), Message: "one"},
		{BaseEvent: NewBaseEvent("test.two", "download", "b"), Message: "two"},
		{BaseEvent: NewBaseEvent("test.three", "download", "a"), Message: "three"},
	} {
		_, err := log.Append(ctx, e)
		require.NoError(t, err)
	}

	events, err := log.ForEntity(ctx, "download", "a")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "test.one", events[0].EventType)
	assert.Equal(t, "test.three", events[1].EventType)
}

func TestEventLog_Recent(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := log.Append(ctx, &testEvent{BaseEvent: NewBaseEvent("test.tick", "download", "a")})
		require.NoError(t, err)
	}

	events, err := log.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Greater(t, events[0].ID, events[1].ID, "newest first")
}

func TestEventLog_Since(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)
	ctx := context.Background()

	_, err := log.Append(ctx, &testEvent{BaseEvent: NewBaseEvent("test.first", "download", "a")})
	require.NoError(t, err)

	events, err := log.Since(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, events, 1)

	events, err = log.Since(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventLog_Prune(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)
	ctx := context.Background()

	old := &testEvent{BaseEvent: BaseEvent{
		Type: "test.old", Entity: "download", ID: "a",
		Timestamp: time.Now().Add(-48 * time.Hour),
	}}
	fresh := &testEvent{BaseEvent: NewBaseEvent("test.fresh", "download", "a")}

	_, err := log.Append(ctx, old)
	require.NoError(t, err)
	_, err = log.Append(ctx, fresh)
	require.NoError(t, err)

	pruned, err := log.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	events, err := log.Since(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "test.fresh", events[0].EventType)
}
