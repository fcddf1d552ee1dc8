package lcd

// Message is a two-line status update produced outside the control loop.
//
//	status := make(chan lcd.Message, 4)
//	go publisher.Run(status)
//
//	// in the control loop
//	select {
//	case msg := <-status:
//		screen.Show(msg.Text(screen.Columns()))
//	default:
//	}
type Message struct {
	Line1 []byte
	Line2 []byte
}

// Text lays the message out as two logical lines of width cols.
// Each line is truncated in place or padded with spaces.
func (m Message) Text(cols int) string {
	if cols <= 0 {
		return ""
	}
	buf := make([]byte, 0, 2*cols)
	buf = appendPadded(buf, m.Line1, cols)
	if len(m.Line2) > 0 {
		buf = appendPadded(buf, m.Line2, cols)
	}
	return string(buf)
}

func appendPadded(buf, line []byte, cols int) []byte {
	if len(line) > cols {
		line = line[:cols]
	}
	buf = append(buf, line...)
	for i := len(line); i < cols; i++ {
		buf = append(buf, ' ')
	}
	return buf
}

// Send queues a message without blocking. The message is dropped if ch is
// nil or full.
func Send(ch chan<- Message, line1, line2 string) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- Message{Line1: []byte(line1), Line2: []byte(line2)}:
		return true
	default:
		return false
	}
}
