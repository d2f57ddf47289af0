// Package queue implements the append-only JSONL handoff file shared by
// concurrent hook invocations and the drain consumer.
package queue

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/dotcommander/gitmem/internal/models"
)

// lock acquires an exclusive blocking advisory lock on f.
// Concurrent appenders queue up here; lines never interleave.
func lock(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX)
}

// unlock releases the advisory lock. Nil-safe.
func unlock(f *os.File) {
	if f == nil {
		return
	}
	_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}

// Append serializes one record and appends it as a single newline-terminated
// line. The lock is held only across the write itself — classification and
// enrichment never run under it.
func Append(path string, record *models.MemoryRecord) error {
	if path == "" || record == nil {
		return fmt.Errorf("queue append: missing path or record")
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create queue dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec // G304: path from config
	if err != nil {
		return fmt.Errorf("open queue file %s: %w", path, err)
	}
	defer f.Close()

	if err := lock(f); err != nil {
		return fmt.Errorf("acquire queue lock: %w", err)
	}
	defer unlock(f)

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return f.Sync()
}

// DrainResult reports what a Drain call consumed.
type DrainResult struct {
	Records   []models.MemoryRecord
	Malformed int
}

// Drain reads every queued record under the same exclusive lock used by
// Append, hands them to persist, and truncates the queue only after persist
// returns nil. A persist failure leaves the queue file untouched, so the
// records survive for the next drain. A missing queue file is an empty drain,
// not an error. Malformed lines are counted and dropped. A nil persist
// truncates unconditionally.
//
// persist runs under the queue lock; concurrent appenders block until it
// finishes.
func Drain(path string, persist func([]models.MemoryRecord) error) (DrainResult, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644) //nolint:gosec // G304: path from config
	if os.IsNotExist(err) {
		if persist != nil {
			return DrainResult{}, persist(nil)
		}
		return DrainResult{}, nil
	}
	if err != nil {
		return DrainResult{}, fmt.Errorf("open queue file %s: %w", path, err)
	}
	defer f.Close()

	if err := lock(f); err != nil {
		return DrainResult{}, fmt.Errorf("acquire queue lock: %w", err)
	}
	defer unlock(f)

	var res DrainResult
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec models.MemoryRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			res.Malformed++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return DrainResult{}, fmt.Errorf("read queue: %w", err)
	}

	if persist != nil {
		if err := persist(res.Records); err != nil {
			return res, err
		}
	}

	if err := f.Truncate(0); err != nil {
		return res, fmt.Errorf("truncate queue: %w", err)
	}
	return res, nil
}

// Depth counts the queued lines without consuming them.
func Depth(path string) (int, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path from config
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if len(scanner.Bytes()) > 0 {
			n++
		}
	}
	return n, scanner.Err()
}
