// Package suggestions implements the suggestion submission and moderation workflow.
package suggestions

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a suggestion.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

var (
	ErrWrongChannel             = errors.New("suggestions: command used outside the command channel")
	ErrMissingSuggestionChannel = errors.New("suggestions: suggestion channel not found")
	ErrUnauthorized             = errors.New("suggestions: actor is not a moderator")
	ErrCooldown                 = errors.New("suggestions: submitted too recently")
	ErrEmptySuggestion          = errors.New("suggestions: suggestion text is empty")
	ErrNotFound                 = errors.New("suggestions: suggestion not found")
	ErrAlreadyResolved          = errors.New("suggestions: suggestion already resolved")
	ErrInvalidTransition        = errors.New("suggestions: invalid target status")
)

// Suggestion is the record behind a suggestion post. The rendered post is a
// projection of it.
type Suggestion struct {
	ID              string     `json:"id"`
	GuildID         string     `json:"guildId"`
	AuthorID        string     `json:"authorId"`
	AuthorName      string     `json:"authorName"`
	AuthorAvatarURL string     `json:"authorAvatarUrl,omitempty"`
	Text            string     `json:"text"`
	Status          Status     `json:"status"`
	ChannelID       string     `json:"channelId,omitempty"`
	MessageID       string     `json:"messageId,omitempty"`
	ResolvedBy      string     `json:"resolvedBy,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty"`
}

// NewSuggestion returns a pending suggestion with a fresh ID.
func NewSuggestion(guildID, authorID, authorName, avatarURL, text string, now time.Time) Suggestion {
	return Suggestion{
		ID:              uuid.NewString(),
		GuildID:         guildID,
		AuthorID:        authorID,
		AuthorName:      authorName,
		AuthorAvatarURL: avatarURL,
		Text:            text,
		Status:          StatusPending,
		CreatedAt:       now,
	}
}

// CanResolve reports whether the suggestion still accepts a decision.
func (s *Suggestion) CanResolve() bool {
	return s.Status == StatusPending
}

// Resolve moves a pending suggestion to a terminal status.
func (s *Suggestion) Resolve(to Status, actorID string, now time.Time) error {
	if !to.Terminal() {
		return ErrInvalidTransition
	}
	if !s.CanResolve() {
		return ErrAlreadyResolved
	}
	s.Status = to
	s.ResolvedBy = actorID
	resolvedAt := now
	s.ResolvedAt = &resolvedAt
	return nil
}

// Action is a moderator decision attached to a suggestion post.
type Action string

const (
	ActionApprove Action = "suggestion_approve"
	ActionReject  Action = "suggestion_reject"
)

// Status returns the terminal status an action leads to.
func (a Action) Status() Status {
	switch a {
	case ActionApprove:
		return StatusApproved
	case ActionReject:
		return StatusRejected
	}
	return ""
}

const customIDSep = ":"

// CustomID builds the button identifier for an action on a suggestion.
func CustomID(action Action, suggestionID string) string {
	return string(action) + customIDSep + suggestionID
}

// ParseCustomID splits a button identifier. ok is false for foreign buttons.
func ParseCustomID(customID string) (action Action, suggestionID string, ok bool) {
	name, id, found := strings.Cut(customID, customIDSep)
	if !found || id == "" {
		return "", "", false
	}
	action = Action(name)
	if action.Status() == "" {
		return "", "", false
	}
	return action, id, true
}
