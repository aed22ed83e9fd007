package input

import "errors"

// Callers are expected to branch on these with errors.Is / direct compare.
// WouldBlock and Timeout are normal idle conditions of the read side;
// Closed is terminal for the source; everything else is the invalid class.
var (
	// ErrWouldBlock: non-blocking read found the queue empty.
	ErrWouldBlock = errors.New("input: would block")

	// ErrTimeout: bounded read expired before an event arrived.
	ErrTimeout = errors.New("input: read timeout")

	// ErrClosed: source teardown has begun, no further events.
	ErrClosed = errors.New("input: source closed")

	// ErrInvalid: malformed request or implementation rejection.
	ErrInvalid = errors.New("input: invalid request")

	// ErrQueueFull: injection rejected, queue at capacity.
	// Deliberately an error rather than blocking the producer: injection
	// must never suspend, and silent drop would break per-device ordering
	// assumptions downstream.
	ErrQueueFull = errors.New("input: queue full")
)
