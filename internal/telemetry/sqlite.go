// Package telemetry persists lifecycle events and macro cost updates to
// SQLite for offline inspection. It is a passive subscriber external to
// the planning core: the core itself keeps no persistent storage and
// functions identically with no sink attached. Grounded on the
// teacher's internal/learning.Store (go:embed schema, mattn/go-sqlite3,
// initSchema-on-open).
package telemetry

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"database/sql"

	"github.com/kestrelbot/agentcore/internal/macro"
	"github.com/kestrelbot/agentcore/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteSink records lifecycle events and macro cost updates into a
// SQLite database. Safe for concurrent use (delegated to database/sql's
// own connection pooling).
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLiteSink opens (creating if needed) the database at path and
// applies the embedded schema. Parent directories are created as
// needed; path may be ":memory:" for an ephemeral sink.
func OpenSQLiteSink(path string) (*SQLiteSink, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create telemetry directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open telemetry database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init telemetry schema: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteSink) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordEvent persists one lifecycle event. It never mutates the event
// or the core's in-memory state; failures are returned to the caller to
// log, never panicked.
func (s *SQLiteSink) RecordEvent(ctx context.Context, event models.LifecycleEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal lifecycle event: %w", err)
	}

	goalID, _ := event.Fields["goal_id"].(string)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO lifecycle_events (event_type, task_id, goal_id, payload, occurred_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(event.Type), event.TaskID, goalID, string(payload), event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert lifecycle event: %w", err)
	}
	return nil
}

// RecordCostUpdate persists one macro feedback cost update.
func (s *SQLiteSink) RecordCostUpdate(ctx context.Context, update macro.CostUpdate, recordedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO macro_cost_updates (edge_id, previous_cost, new_cost, consecutive_failures, recorded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		update.EdgeID, update.PreviousCost, update.NewCost, update.ConsecutiveFailures, recordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert macro cost update: %w", err)
	}
	return nil
}

// EventsByType returns the persisted events of a given type, most
// recent first.
func (s *SQLiteSink) EventsByType(ctx context.Context, eventType string) ([]models.LifecycleEvent, error) {
	return s.queryEvents(ctx, `SELECT payload FROM lifecycle_events WHERE event_type = ? ORDER BY id DESC`, eventType)
}

// AllEvents returns every persisted event, most recent first, for
// offline inspection with no type filter.
func (s *SQLiteSink) AllEvents(ctx context.Context) ([]models.LifecycleEvent, error) {
	return s.queryEvents(ctx, `SELECT payload FROM lifecycle_events ORDER BY id DESC`)
}

func (s *SQLiteSink) queryEvents(ctx context.Context, query string, args ...interface{}) ([]models.LifecycleEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lifecycle events: %w", err)
	}
	defer rows.Close()

	var events []models.LifecycleEvent
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan lifecycle event: %w", err)
		}
		var event models.LifecycleEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			return nil, fmt.Errorf("unmarshal lifecycle event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
