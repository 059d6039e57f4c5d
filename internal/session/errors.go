// ABOUTME: Sentinel errors surfaced to callers of the session engine
// ABOUTME: Completion failures are absorbed into fallback turns and never appear here

package session

import "errors"

// ErrNotFound indicates the conversation id does not exist.
var ErrNotFound = errors.New("conversation not found")

// ErrInvalidState indicates the requested transition is not legal for the
// conversation's current status. State is unchanged.
var ErrInvalidState = errors.New("invalid conversation state")

// ErrBusy indicates a customer message is already in flight for this
// conversation. Submissions are single-writer per conversation.
var ErrBusy = errors.New("conversation busy")

// ErrEmptyContent indicates a message or intake description with no text.
var ErrEmptyContent = errors.New("message content is empty")
