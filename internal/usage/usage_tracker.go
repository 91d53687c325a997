// Package usage records how many model tokens archfolio spends, per model and per
// assistant operation, and keeps the totals in the workspace.
package usage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"archfolio/internal/logging"
)

const dataVersion = "1.0"

// DefaultSaveDelay batches the writes of several calls made close together.
const DefaultSaveDelay = 5 * time.Second

// Tracker manages token usage recording and persistence. A nil *Tracker is valid
// and records nothing.
type Tracker struct {
	mu        sync.Mutex
	data      UsageData
	filePath  string
	saveDelay time.Duration
	saveTimer *time.Timer
	dirty     bool
}

// NewTracker loads (or starts) the usage file under workspace/.archfolio.
func NewTracker(workspace string) (*Tracker, error) {
	dir := filepath.Join(workspace, ".archfolio")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .archfolio dir: %w", err)
	}

	t := &Tracker{
		filePath:  filepath.Join(dir, "usage.json"),
		saveDelay: DefaultSaveDelay,
		data:      emptyData(),
	}
	if err := t.Load(); err != nil {
		// a corrupt file restarts the counters rather than blocking the editor
		logging.Get(logging.CategoryAssistant).Warn("usage file unreadable, starting fresh: %v", err)
		t.data = emptyData()
	}
	return t, nil
}

func emptyData() UsageData {
	return UsageData{
		Version: dataVersion,
		Aggregate: AggregatedStats{
			ByModel:     make(map[string]TokenCounts),
			ByOperation: make(map[string]TokenCounts),
		},
	}
}

// Path returns the usage file.
func (t *Tracker) Path() string { return t.filePath }

// Load reads the usage data from disk. A missing file is not an error.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := os.ReadFile(t.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	loaded := emptyData()
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}
	if loaded.Aggregate.ByModel == nil {
		loaded.Aggregate.ByModel = make(map[string]TokenCounts)
	}
	if loaded.Aggregate.ByOperation == nil {
		loaded.Aggregate.ByOperation = make(map[string]TokenCounts)
	}
	t.data = loaded
	return nil
}

// Save writes the usage data to disk.
func (t *Tracker) Save() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saveLocked()
}

func (t *Tracker) saveLocked() error {
	data, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(t.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write usage: %w", err)
	}
	t.dirty = false
	return nil
}

// Track records one successful model call.
func (t *Tracker) Track(model, operation string, input, output int) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.data.Aggregate.Calls++
	t.data.Aggregate.Total.Add(input, output)
	addToMap(t.data.Aggregate.ByModel, model, input, output)
	addToMap(t.data.Aggregate.ByOperation, operation, input, output)
	t.scheduleSaveLocked()
}

// TrackFailure counts a model call that did not produce a usable answer.
func (t *Tracker) TrackFailure() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.Aggregate.Failures++
	t.scheduleSaveLocked()
}

// scheduleSaveLocked starts the debounced autosave once per batch.
func (t *Tracker) scheduleSaveLocked() {
	if t.dirty {
		return
	}
	t.dirty = true
	t.saveTimer = time.AfterFunc(t.saveDelay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if !t.dirty {
			return
		}
		if err := t.saveLocked(); err != nil {
			logging.Get(logging.CategoryAssistant).Warn("usage autosave failed: %v", err)
		}
	})
}

// Close stops the autosave and writes pending counts.
func (t *Tracker) Close() error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.saveTimer != nil {
		t.saveTimer.Stop()
		t.saveTimer = nil
	}
	if !t.dirty {
		return nil
	}
	return t.saveLocked()
}

// Stats returns a copy of the aggregated stats.
func (t *Tracker) Stats() AggregatedStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	stats := t.data.Aggregate
	stats.ByModel = copyTokenCountsMap(stats.ByModel)
	stats.ByOperation = copyTokenCountsMap(stats.ByOperation)
	return stats
}

func copyTokenCountsMap(src map[string]TokenCounts) map[string]TokenCounts {
	if src == nil {
		return nil
	}
	dst := make(map[string]TokenCounts, len(src))
	for key, counts := range src {
		dst[key] = counts
	}
	return dst
}

func addToMap(m map[string]TokenCounts, key string, input, output int) {
	entry := m[key]
	entry.Add(input, output)
	m[key] = entry
}
