package document

// EditOpTag discriminates the EditOp sum type.
type EditOpTag int

const (
	// OpInsert inserts Text at Position.
	OpInsert EditOpTag = iota
	// OpDelete deletes [Start,End).
	OpDelete
	// OpTransaction recursively applies Ops in order.
	OpTransaction
)

// EditOp is the sum type driving Document.ApplyEdit: Insert{Position,
// Text}, Delete{Start,End}, or Transaction{Ops}.
type EditOp struct {
	Tag EditOpTag

	Position uint64 // Insert
	Text     string // Insert

	Start uint64 // Delete
	End   uint64 // Delete

	Ops []EditOp // Transaction
}

// Insert constructs an Insert op.
func Insert(position uint64, text string) EditOp {
	return EditOp{Tag: OpInsert, Position: position, Text: text}
}

// Delete constructs a Delete op.
func Delete(start, end uint64) EditOp {
	return EditOp{Tag: OpDelete, Start: start, End: end}
}

// Transaction constructs a Transaction op from a sequence of child ops.
func Transaction(ops ...EditOp) EditOp {
	return EditOp{Tag: OpTransaction, Ops: ops}
}

// AffectedRange returns the byte range an op touches: (Position,
// Position+len(Text)) for Insert, (Start,End) for Delete, and the
// min/max union of children for Transaction.
func (op EditOp) AffectedRange() (uint64, uint64) {
	switch op.Tag {
	case OpInsert:
		return op.Position, op.Position + uint64(len(op.Text))
	case OpDelete:
		return op.Start, op.End
	case OpTransaction:
		if len(op.Ops) == 0 {
			return 0, 0
		}
		lo, hi := op.Ops[0].AffectedRange()
		for _, child := range op.Ops[1:] {
			cl, ch := child.AffectedRange()
			if cl < lo {
				lo = cl
			}
			if ch > hi {
				hi = ch
			}
		}
		return lo, hi
	default:
		return 0, 0
	}
}

// PatchKind discriminates the kind of change a ParagraphPatch records.
type PatchKind int

const (
	// PatchChanged marks a paragraph whose text or style spans changed.
	PatchChanged PatchKind = iota
	// PatchCreated marks a newly created paragraph.
	PatchCreated
	// PatchDeleted marks a removed paragraph.
	PatchDeleted
)

// ParagraphPatch records one paragraph-level change, supplementing
// EditResult for callers that want patch-kind granularity (grounded on
// original_source's render/diff.rs patch-kind enum, see SPEC_FULL.md).
type ParagraphPatch struct {
	ID   ParagraphID
	Kind PatchKind
}

// EditResult describes the outcome of one ApplyEdit/FormatRange call.
type EditResult struct {
	Version            Version
	AffectedParagraphs []ParagraphID
	CreatedParagraphs  []ParagraphID
	DeletedParagraphs  []ParagraphID
	NewCursor          DocPosition
}

func mergeResults(into *EditResult, other EditResult) {
	into.AffectedParagraphs = append(into.AffectedParagraphs, other.AffectedParagraphs...)
	into.CreatedParagraphs = append(into.CreatedParagraphs, other.CreatedParagraphs...)
	into.DeletedParagraphs = append(into.DeletedParagraphs, other.DeletedParagraphs...)
	into.NewCursor = other.NewCursor
}
