package backup

import "testing"

func TestManifestLatest(t *testing.T) {
	m := &Manifest{}

	if _, ok := m.Latest(); ok {
		t.Error("Latest() on empty manifest reported a record")
	}

	m.Append(Record{Kind: KindFull, Timestamp: "t0"})
	m.Append(Record{Kind: KindIncremental, Timestamp: "t1", Parent: "t0"})
	m.Append(Record{Kind: KindDifferential, Timestamp: "t2", Parent: "t0"})

	latest, ok := m.Latest()
	if !ok || latest.Timestamp != "t2" {
		t.Errorf("Latest() = %v, want record t2", latest)
	}
}

func TestManifestLatestFull(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    string
		wantOK  bool
	}{
		{
			name:   "empty manifest",
			wantOK: false,
		},
		{
			name: "no full record",
			records: []Record{
				{Kind: KindIncremental, Timestamp: "t0"},
				{Kind: KindDifferential, Timestamp: "t1"},
			},
			wantOK: false,
		},
		{
			name: "full behind incrementals",
			records: []Record{
				{Kind: KindFull, Timestamp: "t0"},
				{Kind: KindIncremental, Timestamp: "t1"},
				{Kind: KindIncremental, Timestamp: "t2"},
			},
			want:   "t0",
			wantOK: true,
		},
		{
			name: "nearest of two fulls wins",
			records: []Record{
				{Kind: KindFull, Timestamp: "t0"},
				{Kind: KindIncremental, Timestamp: "t1"},
				{Kind: KindFull, Timestamp: "t2"},
				{Kind: KindDifferential, Timestamp: "t3"},
			},
			want:   "t2",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manifest{Backups: tt.records}
			got, ok := m.LatestFull()
			if ok != tt.wantOK {
				t.Fatalf("LatestFull() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Timestamp != tt.want {
				t.Errorf("LatestFull() = %v, want %s", got.Timestamp, tt.want)
			}
		})
	}
}

func TestKindFolderPrefix(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindFull, "full_"},
		{KindIncremental, "incr_"},
		{KindDifferential, "diff_"},
	}
	for _, tt := range tests {
		if got := tt.kind.folderPrefix(); got != tt.want {
			t.Errorf("folderPrefix(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindIsValid(t *testing.T) {
	for _, k := range []Kind{KindFull, KindIncremental, KindDifferential} {
		if !k.IsValid() {
			t.Errorf("IsValid(%s) = false, want true", k)
		}
	}
	if Kind("snapshot").IsValid() {
		t.Error("IsValid(snapshot) = true, want false")
	}
}
