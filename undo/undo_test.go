package undo

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/scriven/document"
)

func applyTracked(t *testing.T, stack *Stack, doc *document.Document, op document.EditOp) {
	t.Helper()
	reverse := doc.ComputeReverse(op)
	doc.ApplyEdit(op)
	stack.RecordEdit(op, reverse)
}

func TestUndoRestoresTextExactly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "undo")
	defer teardown()
	//
	doc := document.FromText("hello")
	stack := NewStack(10)

	stack.BeginTransaction("insert", document.DocPosition{}, nil, 0)
	applyTracked(t, stack, doc, document.Insert(5, " world"))
	stack.Commit()

	if doc.Text() != "hello world" {
		t.Fatalf("text = %q", doc.Text())
	}
	if _, _, ok := stack.Undo(doc); !ok {
		t.Fatalf("expected something to undo")
	}
	if doc.Text() != "hello" {
		t.Fatalf("after undo text = %q, want %q", doc.Text(), "hello")
	}
}

func TestRedoReappliesForwardOps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "undo")
	defer teardown()
	//
	doc := document.FromText("hello")
	stack := NewStack(10)

	stack.BeginTransaction("insert", document.DocPosition{}, nil, 0)
	applyTracked(t, stack, doc, document.Insert(5, " world"))
	stack.Commit()

	stack.Undo(doc)
	if doc.Text() != "hello" {
		t.Fatalf("after undo text = %q", doc.Text())
	}
	if _, ok := stack.Redo(doc); !ok {
		t.Fatalf("expected something to redo")
	}
	if doc.Text() != "hello world" {
		t.Fatalf("after redo text = %q, want %q", doc.Text(), "hello world")
	}
}

func TestCommitClearsRedoStack(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "undo")
	defer teardown()
	//
	doc := document.FromText("hello")
	stack := NewStack(10)

	stack.BeginTransaction("a", document.DocPosition{}, nil, 0)
	applyTracked(t, stack, doc, document.Insert(5, "1"))
	stack.Commit()
	stack.Undo(doc)
	if !stack.CanRedo() {
		t.Fatalf("expected redo available after undo")
	}

	stack.BeginTransaction("b", document.DocPosition{}, nil, 1)
	applyTracked(t, stack, doc, document.Insert(5, "2"))
	stack.Commit()
	if stack.CanRedo() {
		t.Fatalf("expected redo stack cleared after a new commit")
	}
}

func TestEmptyPendingTransactionIsDiscarded(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "undo")
	defer teardown()
	//
	stack := NewStack(10)
	stack.BeginTransaction("noop", document.DocPosition{}, nil, 0)
	stack.Commit()
	if stack.CanUndo() {
		t.Fatalf("expected empty transaction to be discarded")
	}
}

func TestMaxDepthDropsOldestEntry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "undo")
	defer teardown()
	//
	doc := document.FromText("")
	stack := NewStack(2)
	for i := 0; i < 3; i++ {
		stack.BeginTransaction("edit", document.DocPosition{}, nil, int64(i))
		applyTracked(t, stack, doc, document.Insert(doc.Len(), "x"))
		stack.Commit()
	}
	if len(stack.undo) != 2 {
		t.Fatalf("expected undo depth capped at 2, got %d", len(stack.undo))
	}
}

func TestUndoRedoInverseOnText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "undo")
	defer teardown()
	//
	doc := document.FromText("abc")
	stack := NewStack(10)

	stack.BeginTransaction("insert", document.DocPosition{}, nil, 0)
	applyTracked(t, stack, doc, document.Insert(3, "def"))
	stack.Commit()

	stack.BeginTransaction("delete", document.DocPosition{}, nil, 1)
	applyTracked(t, stack, doc, document.Delete(0, 2))
	stack.Commit()

	want := doc.Text()
	stack.Undo(doc)
	stack.Undo(doc)
	stack.Redo(doc)
	stack.Redo(doc)
	if doc.Text() != want {
		t.Fatalf("undo+redo round trip mismatch: got %q want %q", doc.Text(), want)
	}
}
