package loop

import (
	"fmt"

	"torus-ca/pkg/edit"
)

// Kind enumerates the commands a front end can queue.
type Kind uint8

const (
	Quit Kind = iota
	Pause
	Screenshot
	Clear
	Export
	Edit
	Advance
	Randomize
	Reset
	Reseed
)

var kindNames = [...]string{"quit", "pause", "screenshot", "clear", "export", "edit", "advance", "randomize", "reset", "reseed"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Event is one queued input. Edit is read for Edit events, Seed for Reseed.
type Event struct {
	Kind Kind
	Edit edit.Request
	Seed int64
}

// Toggle returns an Edit event cycling the cell at (x, y).
func Toggle(x, y int) Event {
	return Event{Kind: Edit, Edit: edit.Request{X: x, Y: y, Kind: edit.Toggle}}
}

// SetCell returns an Edit event writing the state with index code at (x, y).
func SetCell(x, y int, code uint8) Event {
	return Event{Kind: Edit, Edit: edit.Request{X: x, Y: y, Kind: edit.Set, Code: code}}
}

// Queue buffers events between ticks. It is owned by the front end goroutine
// and is not safe for concurrent use.
type Queue struct {
	events []Event
}

// Push appends an event.
func (q *Queue) Push(ev Event) { q.events = append(q.events, ev) }

// PushKind appends an event that carries no payload.
func (q *Queue) PushKind(k Kind) { q.Push(Event{Kind: k}) }

// Len reports the number of pending events.
func (q *Queue) Len() int { return len(q.events) }

// Drain returns the pending events in arrival order and empties the queue.
func (q *Queue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}
