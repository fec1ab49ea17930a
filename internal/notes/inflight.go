package notes

import "sync/atomic"

// OpKind names a repository mutation, for per-kind in-flight reporting.
type OpKind string

const (
	OpCreate    OpKind = "create"
	OpUpdate    OpKind = "update"
	OpDelete    OpKind = "delete"
	OpStar      OpKind = "star"
	OpDuplicate OpKind = "duplicate"
	OpUpload    OpKind = "upload"
)

var opKinds = []OpKind{OpCreate, OpUpdate, OpDelete, OpStar, OpDuplicate, OpUpload}

// tracker counts in-flight operations per kind so the UI can disable the
// matching controls while a mutation is pending.
type tracker struct {
	counters map[OpKind]*atomic.Int32
}

func newTracker() *tracker {
	t := &tracker{counters: make(map[OpKind]*atomic.Int32, len(opKinds))}
	for _, kind := range opKinds {
		t.counters[kind] = &atomic.Int32{}
	}
	return t
}

// begin marks an operation started and returns its completion func.
func (t *tracker) begin(kind OpKind) func() {
	c := t.counters[kind]
	c.Add(1)
	return func() { c.Add(-1) }
}

func (t *tracker) inFlight(kind OpKind) bool {
	c, ok := t.counters[kind]
	return ok && c.Load() > 0
}

func (t *tracker) snapshot() map[OpKind]bool {
	out := make(map[OpKind]bool, len(opKinds))
	for _, kind := range opKinds {
		out[kind] = t.counters[kind].Load() > 0
	}
	return out
}
