package menu

// Editor is a bounded line of text with a cursor.
//
// Every mutator reports whether it changed anything. Out-of-range requests
// are dropped or clamped rather than reported.
type Editor struct {
	buf    []byte
	cursor int
	limit  int
}

// NewEditor returns an empty Editor holding at most limit characters.
func NewEditor(limit int) *Editor {
	return &Editor{limit: max(0, limit), buf: make([]byte, 0, max(0, limit))}
}

// Insert puts ch at the cursor and advances it. A full editor drops ch.
func (e *Editor) Insert(ch byte) bool {
	if len(e.buf) >= e.limit {
		return false
	}
	e.buf = append(e.buf, 0)
	copy(e.buf[e.cursor+1:], e.buf[e.cursor:])
	e.buf[e.cursor] = ch
	e.cursor++
	return true
}

// DeleteBack removes the character before the cursor.
func (e *Editor) DeleteBack() bool {
	if e.cursor == 0 {
		return false
	}
	e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
	e.cursor--
	return true
}

func (e *Editor) MoveLeft() bool {
	if e.cursor == 0 {
		return false
	}
	e.cursor--
	return true
}

func (e *Editor) MoveRight() bool {
	if e.cursor >= len(e.buf) {
		return false
	}
	e.cursor++
	return true
}

// Clear empties the editor.
func (e *Editor) Clear() {
	e.buf = e.buf[:0]
	e.cursor = 0
}

func (e *Editor) String() string { return string(e.buf) }

func (e *Editor) Len() int { return len(e.buf) }

func (e *Editor) Cursor() int { return e.cursor }

func (e *Editor) Limit() int { return e.limit }
