package conversation

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/coverly/advisor/internal/attachment"
)

// Role identifies who authored a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation. Immutable once appended.
type Turn struct {
	ID          string
	Role        Role
	Text        string
	Attachments []attachment.Descriptor
}

// ErrRequestPending is returned by Begin while an advisory request is
// already in flight for the conversation.
var ErrRequestPending = errors.New("a request is already pending for this conversation")

// Log is an append-only record of one conversation, plus the single-flight
// gate: at most one advisory request may be outstanding at a time. Turns
// are never edited or removed. A user turn is appended before its network
// call is issued; the matching assistant turn (advisory content or the
// generic failure text) is appended only once the call resolves.
type Log struct {
	mu      sync.Mutex
	turns   []Turn
	pending bool
}

func NewLog() *Log {
	return &Log{}
}

// AppendUser records the user's turn with its attachments.
func (l *Log) AppendUser(text string, attachments []attachment.Descriptor) Turn {
	return l.append(RoleUser, text, attachments)
}

// AppendAssistant records the assistant's reply.
func (l *Log) AppendAssistant(text string) Turn {
	return l.append(RoleAssistant, text, nil)
}

func (l *Log) append(role Role, text string, attachments []attachment.Descriptor) Turn {
	turn := Turn{
		ID:          uuid.New().String(),
		Role:        role,
		Text:        text,
		Attachments: append([]attachment.Descriptor(nil), attachments...),
	}
	l.mu.Lock()
	l.turns = append(l.turns, turn)
	l.mu.Unlock()
	return turn
}

// Begin claims the in-flight slot. It fails with ErrRequestPending if a
// previous request has not finished; the caller must not send.
func (l *Log) Begin() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending {
		return ErrRequestPending
	}
	l.pending = true
	return nil
}

// Finish releases the in-flight slot. Safe to call after both success and
// failure paths.
func (l *Log) Finish() {
	l.mu.Lock()
	l.pending = false
	l.mu.Unlock()
}

// Pending reports whether a request is currently outstanding.
func (l *Log) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Turns returns a copy of the log in append order.
func (l *Log) Turns() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Turn(nil), l.turns...)
}

// Len returns the number of turns appended so far.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}
