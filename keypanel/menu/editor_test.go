package menu

import "testing"

func TestEditorInsertAtCursor(t *testing.T) {
	e := NewEditor(8)
	for _, c := range []byte("AC") {
		e.Insert(c)
	}
	e.MoveLeft()
	if !e.Insert('B') {
		t.Fatal("Insert() = false")
	}
	if e.String() != "ABC" || e.Cursor() != 2 {
		t.Fatalf("editor = %q cursor %d, want %q cursor 2", e.String(), e.Cursor(), "ABC")
	}
}

func TestEditorInsertWhenFullDrops(t *testing.T) {
	e := NewEditor(3)
	for _, c := range []byte("123") {
		if !e.Insert(c) {
			t.Fatalf("Insert(%q) = false", c)
		}
	}
	e.MoveLeft()
	if e.Insert('9') {
		t.Fatal("Insert() on full editor = true")
	}
	if e.String() != "123" || e.Cursor() != 2 {
		t.Fatalf("editor = %q cursor %d", e.String(), e.Cursor())
	}
}

func TestEditorDeleteBackOnEmpty(t *testing.T) {
	e := NewEditor(4)
	if e.DeleteBack() {
		t.Fatal("DeleteBack() on empty = true")
	}
	if e.Cursor() != 0 || e.Len() != 0 {
		t.Fatalf("cursor %d len %d", e.Cursor(), e.Len())
	}
}

func TestEditorMoveLeftThenDelete(t *testing.T) {
	e := NewEditor(31)
	e.Insert('A')
	e.Insert('B')
	if !e.MoveLeft() {
		t.Fatal("MoveLeft() = false")
	}
	if !e.DeleteBack() {
		t.Fatal("DeleteBack() = false")
	}
	if e.String() != "B" || e.Cursor() != 0 {
		t.Fatalf("editor = %q cursor %d, want %q cursor 0", e.String(), e.Cursor(), "B")
	}
}

func TestEditorMovesClamped(t *testing.T) {
	e := NewEditor(4)
	if e.MoveLeft() || e.MoveRight() {
		t.Fatal("move on empty editor changed the cursor")
	}
	e.Insert('1')
	if e.MoveRight() {
		t.Fatal("MoveRight() past end = true")
	}
	if !e.MoveLeft() || e.MoveLeft() {
		t.Fatal("MoveLeft() not clamped at 0")
	}
}

func TestEditorClear(t *testing.T) {
	e := NewEditor(4)
	e.Insert('1')
	e.Insert('2')
	e.Clear()
	if e.Len() != 0 || e.Cursor() != 0 {
		t.Fatalf("Clear left %q cursor %d", e.String(), e.Cursor())
	}
}

func TestEditorNegativeLimit(t *testing.T) {
	e := NewEditor(-1)
	if e.Insert('1') {
		t.Fatal("Insert() into zero capacity editor = true")
	}
}
