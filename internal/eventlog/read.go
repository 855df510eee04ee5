package eventlog

import (
	"context"
	"fmt"

	"github.com/roach88/preflight/internal/state"
)

// Event is one logged notification plus its position and timestamp.
type Event struct {
	Seq        int64              `json:"seq"`
	RecordedAt string             `json:"recorded_at"`
	Note       state.Notification `json:"notification"`
}

// ReadAll returns every logged event in append order.
// Returns an empty slice (not nil) if the log is empty.
func (l *Log) ReadAll(ctx context.Context) ([]Event, error) {
	return l.read(ctx, `
		SELECT seq, key, prepare_pass, complete, recorded_at
		FROM init_events
		ORDER BY seq ASC
	`)
}

// ReadKey returns the events for a single prepare key in append order.
func (l *Log) ReadKey(ctx context.Context, prepareKey string) ([]Event, error) {
	return l.read(ctx, `
		SELECT seq, key, prepare_pass, complete, recorded_at
		FROM init_events
		WHERE key = ?
		ORDER BY seq ASC
	`, prepareKey)
}

func (l *Log) read(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query init events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var (
			ev                    Event
			preparePass, complete int
		)
		if err := rows.Scan(&ev.Seq, &ev.Note.Key, &preparePass, &complete, &ev.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan init event: %w", err)
		}
		ev.Note.PreparePass = preparePass != 0
		ev.Note.Complete = complete != 0
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate init events: %w", err)
	}
	return events, nil
}
