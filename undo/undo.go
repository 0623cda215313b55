/*
Package undo implements the engine's transactional undo/redo stacks
(spec.md §4.E): bounded-depth history of Transactions, each holding the
forward ops that were applied and the reverse ops that undo them, plus
the cursor/selection state to restore on undo.

Merging consecutive same-kind edits into one Transaction is deliberately
not implemented: spec.md §4.E notes that absolute-offset ops require
shift-aware merging, which this engine does not attempt.
*/
package undo

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/scriven/document"
)

// tracer traces with key 'undo'.
func tracer() tracing.Trace {
	return tracing.Select("undo")
}

// DefaultMaxDepth bounds the undo stack unless overridden via NewStack.
const DefaultMaxDepth = 100

// Transaction is one undoable unit of work.
type Transaction struct {
	Description     string
	ForwardOps      []document.EditOp
	ReverseOps      []document.EditOp
	CursorBefore    document.DocPosition
	SelectionBefore *document.Selection // nil if there was no selection
	Timestamp       int64
}

// Stack holds the undo and redo histories for one document.
type Stack struct {
	maxDepth int
	undo     []Transaction
	redo     []Transaction
	pending  *Transaction
}

// NewStack creates an empty Stack bounded to maxDepth transactions. A
// maxDepth of 0 or less uses DefaultMaxDepth.
func NewStack(maxDepth int) *Stack {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Stack{maxDepth: maxDepth}
}

// BeginTransaction opens a pending transaction describing what will
// happen next, capturing the cursor/selection state to restore on undo.
func (s *Stack) BeginTransaction(description string, cursorBefore document.DocPosition, selectionBefore *document.Selection, timestamp int64) {
	s.pending = &Transaction{
		Description:     description,
		CursorBefore:    cursorBefore,
		SelectionBefore: selectionBefore,
		Timestamp:       timestamp,
	}
}

// RecordEdit appends one forward/reverse op pair to the currently
// pending transaction. Panics if no transaction is open — a Stack
// misuse, not a recoverable condition.
func (s *Stack) RecordEdit(forward, reverse document.EditOp) {
	if s.pending == nil {
		panic("undo: RecordEdit called with no pending transaction")
	}
	s.pending.ForwardOps = append(s.pending.ForwardOps, forward)
	s.pending.ReverseOps = append(s.pending.ReverseOps, reverse)
}

// Commit closes the pending transaction. An empty pending transaction
// (no recorded edits) is discarded rather than pushed. Committing
// clears the redo stack and enforces maxDepth by dropping the oldest
// entry.
func (s *Stack) Commit() {
	if s.pending == nil {
		return
	}
	txn := *s.pending
	s.pending = nil
	if len(txn.ForwardOps) == 0 {
		return
	}
	s.undo = append(s.undo, txn)
	if len(s.undo) > s.maxDepth {
		s.undo = s.undo[len(s.undo)-s.maxDepth:]
	}
	s.redo = nil
	tracer().Debugf("undo: committed %q (%d ops), depth=%d", txn.Description, len(txn.ForwardOps), len(s.undo))
}

// CanUndo reports whether there is a transaction to undo.
func (s *Stack) CanUndo() bool {
	return len(s.undo) > 0
}

// CanRedo reports whether there is a transaction to redo.
func (s *Stack) CanRedo() bool {
	return len(s.redo) > 0
}

// Undo pops the most recent transaction, replays its reverse ops in
// reverse order against doc (restoring text exactly), pushes the
// transaction onto the redo stack, and returns the saved cursor and
// selection. ok is false if there was nothing to undo.
func (s *Stack) Undo(doc *document.Document) (cursor document.DocPosition, selection *document.Selection, ok bool) {
	if len(s.undo) == 0 {
		return document.DocPosition{}, nil, false
	}
	txn := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	for i := len(txn.ReverseOps) - 1; i >= 0; i-- {
		doc.ApplyEdit(txn.ReverseOps[i])
	}
	s.redo = append(s.redo, txn)
	return txn.CursorBefore, txn.SelectionBefore, true
}

// Redo pops the most recently undone transaction, replays its forward
// ops in order against doc, and returns the cursor position implied by
// the last edit's result. ok is false if there was nothing to redo.
func (s *Stack) Redo(doc *document.Document) (cursor document.DocPosition, ok bool) {
	if len(s.redo) == 0 {
		return document.DocPosition{}, false
	}
	txn := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	var result document.EditResult
	for _, op := range txn.ForwardOps {
		result = doc.ApplyEdit(op)
	}
	s.undo = append(s.undo, txn)
	if len(s.undo) > s.maxDepth {
		s.undo = s.undo[len(s.undo)-s.maxDepth:]
	}
	return result.NewCursor, true
}
