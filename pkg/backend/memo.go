package backend

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/util/xcache"
)

// MemoConfig configures the cooldowns of a FailureMemo.
type MemoConfig struct {
	// MissingSourceTTLs are the escalating cooldowns of MissingSource
	// failures. Repeated failures hold at the last stage.
	MissingSourceTTLs []time.Duration `json:"missing_source_ttls" yaml:"missing_source_ttls"`
	// UnknownErrorTTL is the fixed cooldown of UnknownError failures.
	UnknownErrorTTL time.Duration `json:"unknown_error_ttl" yaml:"unknown_error_ttl"`
}

// DefaultMemoConfig returns the default cooldowns.
func DefaultMemoConfig() MemoConfig {
	return MemoConfig{
		MissingSourceTTLs: []time.Duration{5 * time.Second, 10 * time.Second},
		UnknownErrorTTL:   300 * time.Second,
	}
}

// MemoEntry is one memoized failure.
type MemoEntry struct {
	Reason Reason
	// Stage is the index of the cooldown stage, only escalated by
	// MissingSource failures.
	Stage int
	// Until is the time the failure stops suppressing new attempts.
	Until time.Time
	// TTL is the cooldown that produced Until.
	TTL time.Duration
}

// FailureMemo remembers failed manipulations per (hash, variant) and
// suppresses new attempts during a cooldown. It is safe for concurrent use.
//
// Entries are kept for twice their cooldown so that a failure shortly after
// the previous cooldown escalates to the next stage.
type FailureMemo struct {
	config  MemoConfig
	clock   clock.Clock
	entries xcache.Cache[MemoEntry]
}

// NewFailureMemo returns a new FailureMemo.
func NewFailureMemo(config MemoConfig, clk clock.Clock) *FailureMemo {
	if clk == nil {
		clk = clock.New()
	}
	if len(config.MissingSourceTTLs) == 0 {
		config.MissingSourceTTLs = DefaultMemoConfig().MissingSourceTTLs
	}
	return &FailureMemo{
		config:  config,
		clock:   clk,
		entries: xcache.NewMemory[MemoEntry](),
	}
}

func memoKey(key asset.Key) string {
	return key.Hash + "#" + key.Variant
}

// Check returns the failure still suppressing attempts on key, if any.
func (m *FailureMemo) Check(ctx context.Context, key asset.Key) (MemoEntry, bool) {
	entry, ok := m.entries.Get(ctx, memoKey(key))
	if !ok || !m.clock.Now().Before(entry.Until) {
		return MemoEntry{}, false
	}
	return entry, true
}

// Record memoizes a failure of key and returns the entry stored.
// InvalidSource failures are never stored.
func (m *FailureMemo) Record(ctx context.Context, key asset.Key, reason Reason) MemoEntry {
	id := memoKey(key)
	now := m.clock.Now()
	entry := MemoEntry{Reason: reason}

	switch reason {
	case MissingSource:
		if prev, ok := m.entries.Get(ctx, id); ok && prev.Reason == MissingSource && now.Before(prev.Until.Add(prev.TTL)) {
			entry.Stage = min(prev.Stage+1, len(m.config.MissingSourceTTLs)-1)
		}
		entry.TTL = m.config.MissingSourceTTLs[entry.Stage]
	case UnknownError:
		entry.TTL = m.config.UnknownErrorTTL
	default:
		m.entries.Delete(ctx, id)
		return entry
	}

	entry.Until = now.Add(entry.TTL)
	m.entries.Set(ctx, id, entry, xcache.WithTTL[MemoEntry](2*entry.TTL))
	return entry
}

// Clear forgets the failures of key.
func (m *FailureMemo) Clear(ctx context.Context, key asset.Key) {
	m.entries.Delete(ctx, memoKey(key))
}

// Flush forgets all failures.
func (m *FailureMemo) Flush(ctx context.Context) {
	m.entries.Clear(ctx)
}
