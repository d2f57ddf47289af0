package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dotcommander/gitmem/internal/models"
)

// InsertMemories persists drained queue records in a single transaction,
// retried as a unit on transient SQLite contention. Returns the number of
// rows inserted.
func InsertMemories(db *sql.DB, records []models.MemoryRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	inserted := 0
	err := RetryWithBackoff(func() error {
		tx, err := db.BeginTx(context.Background(), nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		inserted = 0
		for _, rec := range records {
			tags, err := json.Marshal(rec.Tags)
			if err != nil {
				return fmt.Errorf("marshal tags: %w", err)
			}
			_, err = tx.ExecContext(context.Background(), `
				INSERT INTO memories (content, tags, importance, type, workflow_type, project, command, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, rec.Content, string(tags), rec.Importance, rec.Type,
				string(rec.Metadata.WorkflowType), rec.Metadata.Project, rec.Metadata.Command,
				rec.Timestamp.UTC().Format(time.RFC3339))
			if err != nil {
				return fmt.Errorf("insert memory: %w", err)
			}
			inserted++
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// CountMemories returns the number of stored memories.
func CountMemories(db *sql.DB) (int64, error) {
	var n int64
	err := db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM memories`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count memories: %w", err)
	}
	return n, nil
}

// StoredMemory is a persisted record row as read back from the store.
type StoredMemory struct {
	ID         int64    `json:"id"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	Importance float64  `json:"importance"`
	Type       string   `json:"type"`
	Workflow   string   `json:"workflow_type"`
	Project    string   `json:"project"`
	Command    string   `json:"command"`
	CreatedAt  string   `json:"created_at"`
}

// ListMemories returns the most recent stored memories, newest first,
// optionally filtered by project. limit <= 0 means no limit.
func ListMemories(db *sql.DB, project string, limit int) ([]StoredMemory, error) {
	query := `SELECT id, content, tags, importance, type, workflow_type, project, command, created_at
		FROM memories`
	var args []any
	if project != "" {
		query += ` WHERE project = ?`
		args = append(args, project)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query memories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []StoredMemory
	for rows.Next() {
		var m StoredMemory
		var tags sql.NullString
		if err := rows.Scan(&m.ID, &m.Content, &tags, &m.Importance, &m.Type,
			&m.Workflow, &m.Project, &m.Command, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan memory row: %w", err)
		}
		if tags.Valid && tags.String != "" {
			_ = json.Unmarshal([]byte(tags.String), &m.Tags)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memory rows: %w", err)
	}
	return out, nil
}
