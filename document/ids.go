package document

// ParagraphID is a stable, monotonically assigned identifier for a
// paragraph. Ids survive splits (the left side keeps the original id) and
// are retired on merges (the right side's id is never reused).
type ParagraphID uint64

// idAllocator hands out strictly increasing ParagraphIDs.
type idAllocator struct {
	next ParagraphID
}

func (a *idAllocator) alloc() ParagraphID {
	a.next++
	return a.next
}

// Version is the document's monotonic logical clock. It is bumped by
// exactly one on every top-level apply_edit/format_range call, and is
// carried into the render buffer so a consumer can detect staleness.
//
// Supplemented from original_source/src/lib.rs, which uses the version
// counter for staleness checks across the host boundary — this expansion
// gives it a dedicated type instead of a bare integer.
type Version uint64

// NewerThan reports whether v is strictly more recent than other.
func (v Version) NewerThan(other Version) bool {
	return v > other
}

// StaleCompared reports whether v is older than current, i.e. a cache
// tagged with v should be considered stale once current is observed.
func (v Version) StaleCompared(current Version) bool {
	return v < current
}
