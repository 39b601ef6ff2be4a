// Package history keeps a best-effort journal of recently answered questions
// in Redis. The journal is an observability aid: it is optional, capped, and
// never on the critical path of answering a question.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/insightloop/bizquery/internal/errors"
)

const journalKey = "bizquery:history"

// Entry is one answered question
type Entry struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Outcome  string    `json:"outcome"`
	AskedAt  time.Time `json:"asked_at"`
}

// Journal stores recent entries in a capped Redis list
type Journal struct {
	redis *redis.Client
	size  int
}

// NewJournal creates a journal over the given Redis client. A nil client
// disables the journal entirely.
func NewJournal(rdb *redis.Client, size int) *Journal {
	if size <= 0 {
		size = 50
	}
	return &Journal{
		redis: rdb,
		size:  size,
	}
}

// Enabled reports whether the journal has a backing Redis client
func (j *Journal) Enabled() bool {
	return j.redis != nil
}

// Record prepends an entry and trims the journal to its cap
func (j *Journal) Record(ctx context.Context, entry Entry) error {
	if !j.Enabled() {
		return nil
	}

	if entry.AskedAt.IsZero() {
		entry.AskedAt = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return errors.NewHistoryWriteError(err)
	}

	if err := j.redis.LPush(ctx, journalKey, data).Err(); err != nil {
		return errors.NewHistoryWriteError(err)
	}

	if err := j.redis.LTrim(ctx, journalKey, 0, int64(j.size-1)).Err(); err != nil {
		return errors.NewHistoryWriteError(err)
	}
	return nil
}

// Recent returns the journal's entries, newest first. Entries that fail to
// decode are skipped.
func (j *Journal) Recent(ctx context.Context) ([]Entry, error) {
	if !j.Enabled() {
		return []Entry{}, nil
	}

	raw, err := j.redis.LRange(ctx, journalKey, 0, int64(j.size-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var entry Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
