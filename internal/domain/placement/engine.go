// Package placement moves entries between the pool and tiers in response to
// drag gestures and owns the per-board interaction state (the live drag
// session, drop-zone highlights and delete mode).
package placement

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/okian/tierlist/internal/domain/board"
)

// Session is the single live drag. At most one exists at a time.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Subject   string    `json:"subject"`
	StartedAt time.Time `json:"started_at"`
	InFlight  bool      `json:"in_flight"`
}

// Target names what the pointer is over. A container id wins; otherwise an
// entry id resolves to the container holding that entry, the way a drop on
// a child node bubbles up to its row. SessionID, when set on a drop, lets
// the drop claim a gesture whose end was reported first.
type Target struct {
	ContainerID string `json:"container_id,omitempty"`
	EntryID     string `json:"entry_id,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
}

// Outcome classifies a drop.
type Outcome string

// Drop outcomes.
const (
	OutcomeMoved      Outcome = "moved"
	OutcomeNoSubject  Outcome = "no_subject"
	OutcomeUnresolved Outcome = "unresolved"
)

// DropResult reports what a drop did.
type DropResult struct {
	Outcome    Outcome `json:"outcome"`
	Identifier string  `json:"identifier,omitempty"`
	From       string  `json:"from,omitempty"`
	To         string  `json:"to,omitempty"`
}

// ConfirmFunc asks the user to confirm prompt.
type ConfirmFunc func(prompt string) bool

// Confirmed is a ConfirmFunc that always answers yes.
func Confirmed(string) bool { return true }

// Declined is a ConfirmFunc that always answers no.
func Declined(string) bool { return false }

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock overrides the time source used for sessions and bindings.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// Engine is the placement state machine for one board.
type Engine struct {
	board       *board.Board
	bindings    *Bindings
	session     *Session
	ended       *Session // last gesture ended before its drop arrived
	highlighted map[string]bool
	deleteMode  bool
	clock       func() time.Time
}

// NewEngine wraps b and binds every entry already on it.
func NewEngine(b *board.Board, opts ...Option) *Engine {
	e := &Engine{
		board:       b,
		highlighted: make(map[string]bool),
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.bindings = NewBindings(e.clock)
	e.bindings.Sync(b.Identifiers())
	return e
}

// Board returns the underlying board.
func (e *Engine) Board() *board.Board { return e.board }

// Bindings exposes the binding registry.
func (e *Engine) Bindings() *Bindings { return e.bindings }

// Add puts a new entry into the pool and binds it.
func (e *Engine) Add(entry board.Entry) error {
	if err := e.board.Add(entry); err != nil {
		return err
	}
	e.rebind()
	return nil
}

// BeginDrag records identifier as the drag subject. A drag already in
// progress is replaced.
func (e *Engine) BeginDrag(identifier string) (Session, error) {
	if !e.bindings.Bound(identifier) {
		return Session{}, fmt.Errorf("%w: %q", ErrNotDraggable, identifier)
	}
	e.ended = nil
	e.session = &Session{
		ID:        uuid.New(),
		Subject:   identifier,
		StartedAt: e.clock(),
		InFlight:  true,
	}
	return *e.session, nil
}

// EndDrag clears the in-flight mark and the session. It is safe to call
// with no drag active. The ended session stays claimable by a drop naming
// its id until the next drag begins.
func (e *Engine) EndDrag() {
	if e.session != nil {
		e.session.InFlight = false
		e.ended = e.session
	}
	e.session = nil
}

// Session returns the live drag, if any.
func (e *Engine) Session() (Session, bool) {
	if e.session == nil {
		return Session{}, false
	}
	return *e.session, true
}

// DragEnter highlights a known container. It reports whether the
// container was recognised.
func (e *Engine) DragEnter(containerID string) bool {
	if !e.board.Resolve(containerID) {
		return false
	}
	e.highlighted[containerID] = true
	return true
}

// DragLeave removes the highlight from containerID unless the pointer moved
// to something still inside it.
func (e *Engine) DragLeave(containerID string, related Target) bool {
	if !e.board.Resolve(containerID) {
		return false
	}
	if to, ok := e.resolve(related); ok && to == containerID {
		return false
	}
	delete(e.highlighted, containerID)
	return true
}

// Highlighted returns the ids of containers currently marked as drop targets.
func (e *Engine) Highlighted() []string {
	out := make([]string, 0, len(e.highlighted))
	for id := range e.highlighted {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Drop moves the drag subject to the end of the container target resolves
// to. The session is cleared on every path; an unresolved target or a
// missing subject leaves the board unchanged.
func (e *Engine) Drop(target Target) DropResult {
	sess := e.session
	if sess == nil && e.ended != nil && target.SessionID != "" && target.SessionID == e.ended.ID.String() {
		sess = e.ended
	}
	defer func() {
		e.session = nil
		e.ended = nil
	}()

	if sess == nil {
		return DropResult{Outcome: OutcomeNoSubject}
	}
	subject := sess.Subject
	to, ok := e.resolve(target)
	if !ok {
		return DropResult{Outcome: OutcomeUnresolved, Identifier: subject}
	}
	from, ok := e.board.Locate(subject)
	if !ok {
		return DropResult{Outcome: OutcomeNoSubject, Identifier: subject}
	}
	delete(e.highlighted, to)
	if err := e.board.Move(subject, to); err != nil {
		return DropResult{Outcome: OutcomeUnresolved, Identifier: subject}
	}
	e.rebind()
	return DropResult{Outcome: OutcomeMoved, Identifier: subject, From: from, To: to}
}

// ToggleDeleteMode flips delete mode and returns the new state.
func (e *Engine) ToggleDeleteMode() bool {
	e.deleteMode = !e.deleteMode
	return e.deleteMode
}

// DeleteMode reports whether delete mode is active.
func (e *Engine) DeleteMode() bool { return e.deleteMode }

// Delete removes identifier when delete mode is on and confirm agrees.
// A declined confirmation returns false with no error.
func (e *Engine) Delete(identifier string, confirm ConfirmFunc) (bool, error) {
	if !e.deleteMode {
		return false, ErrDeleteModeOff
	}
	if !e.board.Has(identifier) {
		return false, fmt.Errorf("%w: %q", board.ErrUnknownEntry, identifier)
	}
	if confirm == nil || !confirm(fmt.Sprintf("Are you sure you want to delete %q?", identifier)) {
		return false, nil
	}
	if err := e.board.Remove(identifier); err != nil {
		return false, err
	}
	if e.session != nil && e.session.Subject == identifier {
		e.session = nil
	}
	if e.ended != nil && e.ended.Subject == identifier {
		e.ended = nil
	}
	e.rebind()
	return true, nil
}

// ClearTiers moves everyone back to the pool after confirmation.
func (e *Engine) ClearTiers(confirm ConfirmFunc) (int, bool) {
	if confirm == nil || !confirm("Are you sure you want to clear all tiers? This will move everyone back to the pool.") {
		return 0, false
	}
	moved := e.board.ClearTiers()
	e.rebind()
	return moved, true
}

// Reset removes every entry after confirmation and leaves delete mode.
func (e *Engine) Reset(confirm ConfirmFunc) bool {
	if confirm == nil || !confirm("Are you sure you want to reset everything? This will remove all people from the tier maker.") {
		return false
	}
	e.board.Reset()
	e.session = nil
	e.ended = nil
	e.highlighted = make(map[string]bool)
	e.deleteMode = false
	e.bindings.Reset()
	return true
}

func (e *Engine) resolve(t Target) (string, bool) {
	if t.ContainerID != "" && e.board.Resolve(t.ContainerID) {
		return t.ContainerID, true
	}
	if t.EntryID != "" {
		return e.board.Locate(t.EntryID)
	}
	return "", false
}

func (e *Engine) rebind() {
	e.bindings.Sync(e.board.Identifiers())
}
