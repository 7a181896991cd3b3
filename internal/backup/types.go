package backup

// Kind identifies the strategy that produced a backup record.
type Kind string

const (
	KindFull         Kind = "full"
	KindIncremental  Kind = "incremental"
	KindDifferential Kind = "differential"
)

// folderPrefix returns the directory-name prefix used for this kind's
// per-run backup folders under the backup root.
func (k Kind) folderPrefix() string {
	switch k {
	case KindIncremental:
		return "incr_"
	case KindDifferential:
		return "diff_"
	default:
		return "full_"
	}
}

// IsValid reports whether k is one of the known backup kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindFull, KindIncremental, KindDifferential:
		return true
	default:
		return false
	}
}

// TimestampFormat is the layout for record timestamps. The timestamp doubles
// as the record's unique identifier and as the folder-name component on disk;
// the layout sorts lexically in chronological order.
const TimestampFormat = "20060102_150405"

// Record describes one completed backup. Files maps slash-separated relative
// paths to content digests, and contains only the paths actually copied for
// this run: full records are complete snapshots, incremental and differential
// records are deltas against their parent.
type Record struct {
	Kind      Kind              `json:"type"`
	Timestamp string            `json:"timestamp"`
	Path      string            `json:"path"`
	Files     map[string]string `json:"files"`
	Parent    string            `json:"parent,omitempty"`
}

// Manifest is the append-only log of backup records. Insertion order is
// chronological order; records are never mutated or removed once appended.
type Manifest struct {
	Backups []Record `json:"backups"`
}

// Len returns the number of records in the manifest.
func (m *Manifest) Len() int {
	return len(m.Backups)
}

// Append adds a record to the end of the log.
func (m *Manifest) Append(rec Record) {
	m.Backups = append(m.Backups, rec)
}

// Latest returns the most recent record of any kind. Incremental runs chain
// against this record regardless of whether it is full, incremental, or
// differential.
func (m *Manifest) Latest() (Record, bool) {
	if len(m.Backups) == 0 {
		return Record{}, false
	}
	return m.Backups[len(m.Backups)-1], true
}

// LatestFull searches backward for the nearest full record. Differential
// runs chain against this record, ignoring any intervening incrementals.
func (m *Manifest) LatestFull() (Record, bool) {
	for i := len(m.Backups) - 1; i >= 0; i-- {
		if m.Backups[i].Kind == KindFull {
			return m.Backups[i], true
		}
	}
	return Record{}, false
}

// Outcome classifies how a run ended short of failure.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeSkipped   Outcome = "skipped"
)

// SkipReason explains a skipped run.
type SkipReason string

const (
	SkipNoBackupFound SkipReason = "no prior backup found"
	SkipNoFullBackup  SkipReason = "no full backup found"
	SkipNoChanges     SkipReason = "no changes detected"
)

// Result reports how a single backup run ended. Callers must branch on
// Outcome rather than assume a backup folder was produced: a skipped run
// leaves the manifest and the backup root untouched.
type Result struct {
	Outcome     Outcome
	Kind        Kind
	Timestamp   string
	Path        string
	FilesCopied int
	SkipReason  SkipReason
}

// Completed reports whether the run produced a backup folder and a new
// manifest record.
func (r *Result) Completed() bool {
	return r.Outcome == OutcomeCompleted
}
