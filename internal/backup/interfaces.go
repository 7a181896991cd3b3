package backup

// ProgressSink receives progress events from the engine as a side channel.
// The engine pushes totals, per-file advances, and description updates; it
// never blocks on rendering. Implementations live outside the core so the
// engine does not depend on a specific rendering technology.
type ProgressSink interface {
	// SetTotal announces the number of files the run will process.
	SetTotal(total int)
	// Advance reports that n more files have been processed.
	Advance(n int)
	// SetDescription updates the human-readable status line.
	SetDescription(text string)
}

// NopSink discards all progress events.
type NopSink struct{}

func (NopSink) SetTotal(int)          {}
func (NopSink) Advance(int)           {}
func (NopSink) SetDescription(string) {}
