package model

import "strings"

const (
	datasetSeparator = "@"
	fieldSeparator   = "-"

	// year, month, day, hour-minute, seconds
	timestampFields = 5
)

// Snapshot is a parsed snapshot identifier of the form
// <dataset>@<yyyy>-<mm>-<dd>-<hhmm>-<ss>-<label>.
//
// Equality and ordering are defined on Name alone. Because the timestamp
// is fixed-width, ordering by Name is chronological within one dataset.
type Snapshot struct {
	Name      string
	Dataset   DatasetName
	Timestamp [timestampFields]string
	Label     string
}

// Parse validates a raw snapshot name. It reports ok=false for anything
// that isn't a well-formed, labelled snapshot name.
func Parse(raw string) (Snapshot, bool) {
	dataset, local, found := strings.Cut(raw, datasetSeparator)
	if !found || dataset == "" || local == "" {
		return Snapshot{}, false
	}

	fields := strings.Split(local, fieldSeparator)
	if len(fields) < timestampFields+1 {
		return Snapshot{}, false
	}
	// The label may itself contain empty dash-separated parts.
	for _, field := range fields[:timestampFields+1] {
		if field == "" {
			return Snapshot{}, false
		}
	}

	snap := Snapshot{
		Name:    raw,
		Dataset: DatasetName(dataset),
		Label:   strings.Join(fields[timestampFields:], fieldSeparator),
	}
	copy(snap.Timestamp[:], fields[:timestampFields])
	return snap, true
}

// ParseAll parses a listing, silently dropping malformed lines, and
// returns the rest sorted by name. Duplicates are kept.
func ParseAll(raw []string) *Snapshots {
	snaps := make([]Snapshot, 0, len(raw))
	for _, line := range raw {
		snap, ok := Parse(line)
		if !ok {
			continue
		}
		snaps = append(snaps, snap)
	}
	return NewSnapshots(snaps...)
}

func (snap Snapshot) String() string {
	return snap.Name
}

func (snap Snapshot) Eq(other Snapshot) bool {
	return snap.Name == other.Name
}

func (snap Snapshot) Less(other Snapshot) bool {
	return snap.Name < other.Name
}

// HasLabel reports whether the name ends in "-<label>".
func (snap Snapshot) HasLabel(label string) bool {
	return strings.HasSuffix(snap.Name, fieldSeparator+label)
}

// InPool returns the name this snapshot would have once received under
// the given pool.
func (snap Snapshot) InPool(pool string) string {
	return pool + "/" + snap.Name
}
