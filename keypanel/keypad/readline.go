package keypad

import (
	"context"
	"time"
)

// ReadLine blocks until terminator is pressed and returns the keys typed
// before it. del removes the last key. echo, if set, is called with the text
// after every change.
//
// ReadLine owns the control flow while it runs, so it must not be called
// from a cooperative tick. Cancel ctx or give it a deadline to bound the
// wait; the partial text is returned together with ctx.Err().
func ReadLine(ctx context.Context, kp Keypad, terminator, del byte, poll time.Duration, echo func(string)) (string, error) {
	if kp == nil {
		return "", nil
	}
	if poll <= 0 {
		poll = 50 * time.Millisecond
	}
	timer := time.NewTimer(poll)
	defer timer.Stop()

	var input []byte
	for {
		if key, ok := kp.PollKey(); ok {
			switch key {
			case terminator:
				return string(input), nil
			case del:
				if len(input) == 0 {
					break
				}
				input = input[:len(input)-1]
				if echo != nil {
					echo(string(input))
				}
			default:
				input = append(input, key)
				if echo != nil {
					echo(string(input))
				}
			}
		}

		select {
		case <-ctx.Done():
			return string(input), ctx.Err()
		case <-timer.C:
			timer.Reset(poll)
		}
	}
}
