package rope

// Builder accumulates text fragments and produces a Rope, grounded on the
// teacher's fragment-accumulation builder: fragments are appended
// left-to-right, and the resulting tree is only assembled on demand.
//
// The empty instance is a valid, empty builder.
type Builder struct {
	fragments []string
	done      bool
}

// NewBuilder creates a new, empty rope builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Append appends a text fragment at the end of the rope under construction.
func (b *Builder) Append(text string) error {
	if b.done {
		return ErrBuilderCompleted
	}
	if text == "" {
		return nil
	}
	b.fragments = append(b.fragments, text)
	return nil
}

// Rope returns the rope which this builder is holding up to now. It is
// illegal to Append further fragments afterwards, but Rope may be called
// multiple times.
func (b *Builder) Rope() Rope {
	b.done = true
	return FromString(stringsJoin(b.fragments))
}

// Reset drops the rope building currently in progress and prepares the
// builder for a fresh build.
func (b *Builder) Reset() {
	b.fragments = nil
	b.done = false
}

func stringsJoin(fragments []string) string {
	total := 0
	for _, f := range fragments {
		total += len(f)
	}
	buf := make([]byte, 0, total)
	for _, f := range fragments {
		buf = append(buf, f...)
	}
	return string(buf)
}
