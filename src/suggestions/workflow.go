package suggestions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Platform is the messaging platform as needed by the workflow.
type Platform interface {
	// FindChannel returns the ID of the guild channel named name (case
	// insensitive) or ErrMissingSuggestionChannel.
	FindChannel(ctx context.Context, guildID, name string) (string, error)
	PostSuggestion(ctx context.Context, channelID string, s Suggestion) (messageID string, err error)
	// ShowResolution re-renders the post for a resolved suggestion and removes its buttons.
	ShowResolution(ctx context.Context, s Suggestion) error
	// AnnounceResolution replies publicly to the post.
	AnnounceResolution(ctx context.Context, s Suggestion) error
	Member(ctx context.Context, guildID, userID string) (*Member, error)
}

// PlatformError wraps a failed platform call.
type PlatformError struct {
	Op  string
	Err error
}

func (e *PlatformError) Error() string { return "suggestions: " + e.Op + ": " + e.Err.Error() }
func (e *PlatformError) Unwrap() error { return e.Err }

// SubmitRequest carries a /suggest invocation.
type SubmitRequest struct {
	GuildID           string
	AuthorID          string
	AuthorName        string
	AuthorAvatarURL   string
	OriginChannelName string
	Text              string
}

// ResolveRequest carries a button press on a suggestion post.
type ResolveRequest struct {
	GuildID      string
	ActorID      string
	SuggestionID string
	Action       Action
}

// Workflow implements submit and resolve.
type Workflow struct {
	Registry          Registry
	Platform          Platform
	Authorizer        *Authorizer
	Limiter           *RateLimiter
	Publisher         Publisher
	CommandChannel    string
	SuggestionChannel string
	Log               *zap.Logger
	Now               func() time.Time
}

func (w *Workflow) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now().UTC()
}

func (w *Workflow) logger() *zap.Logger {
	if w.Log == nil {
		return zap.NewNop()
	}
	return w.Log
}

// InCommandChannel reports whether channelName is the designated intake channel.
func (w *Workflow) InCommandChannel(channelName string) bool {
	name := strings.ToLower(strings.TrimSpace(channelName))
	return name != "" && strings.Contains(name, strings.ToLower(w.CommandChannel))
}

// Submit validates a suggestion, records it as pending and posts it.
func (w *Workflow) Submit(ctx context.Context, req SubmitRequest) (Suggestion, error) {
	if !w.InCommandChannel(req.OriginChannelName) {
		return Suggestion{}, ErrWrongChannel
	}

	now := w.now()
	if !w.Limiter.Allow(req.AuthorID, now) {
		return Suggestion{}, ErrCooldown
	}

	s, err := w.submit(ctx, req, now)
	if err != nil {
		w.Limiter.Release(req.AuthorID)
		return Suggestion{}, err
	}
	return s, nil
}

func (w *Workflow) submit(ctx context.Context, req SubmitRequest, now time.Time) (Suggestion, error) {
	text := SanitizeText(req.Text)
	if text == "" {
		return Suggestion{}, ErrEmptySuggestion
	}

	channelID, err := w.Platform.FindChannel(ctx, req.GuildID, w.SuggestionChannel)
	if err != nil {
		if errors.Is(err, ErrMissingSuggestionChannel) {
			return Suggestion{}, err
		}
		return Suggestion{}, &PlatformError{Op: "find channel", Err: err}
	}

	s := NewSuggestion(req.GuildID, req.AuthorID, req.AuthorName, req.AuthorAvatarURL, text, now)
	if err := w.Registry.Create(ctx, s); err != nil {
		return Suggestion{}, fmt.Errorf("record suggestion: %w", err)
	}

	messageID, err := w.Platform.PostSuggestion(ctx, channelID, s)
	if err != nil {
		if delErr := w.Registry.Delete(ctx, s.ID); delErr != nil {
			w.logger().Warn("suggestions: failed to drop unposted suggestion", zap.String("id", s.ID), zap.Error(delErr))
		}
		return Suggestion{}, &PlatformError{Op: "post suggestion", Err: err}
	}

	if err := w.Registry.AttachMessage(ctx, s.ID, channelID, messageID); err != nil {
		w.logger().Warn("suggestions: failed to attach message", zap.String("id", s.ID), zap.Error(err))
	}
	s.ChannelID = channelID
	s.MessageID = messageID

	w.publish(ctx, Event{Type: EventSubmitted, Suggestion: s, ActorID: s.AuthorID, Time: now})
	w.logger().Info("suggestions: submitted",
		zap.String("id", s.ID), zap.String("author", s.AuthorID), zap.String("message", messageID))
	return s, nil
}

// Resolve applies a moderator decision. Rendering and the public reply are
// best effort: their failures are logged and do not fail the call.
func (w *Workflow) Resolve(ctx context.Context, req ResolveRequest) (Suggestion, error) {
	to := req.Action.Status()
	if to == "" {
		return Suggestion{}, ErrInvalidTransition
	}

	member, err := w.Platform.Member(ctx, req.GuildID, req.ActorID)
	if err != nil {
		return Suggestion{}, &PlatformError{Op: "member lookup", Err: err}
	}
	if !w.Authorizer.Allowed(member) {
		return Suggestion{}, ErrUnauthorized
	}

	now := w.now()
	s, err := w.Registry.Transition(ctx, req.SuggestionID, to, req.ActorID, now)
	if err != nil {
		return s, err
	}

	log := w.logger().With(zap.String("id", s.ID), zap.String("status", string(s.Status)), zap.String("actor", req.ActorID))
	if err := w.Platform.ShowResolution(ctx, s); err != nil {
		log.Error("suggestions: failed to update post", zap.Error(err))
	}
	if err := w.Platform.AnnounceResolution(ctx, s); err != nil {
		log.Error("suggestions: failed to announce resolution", zap.Error(err))
	}

	evType := EventApproved
	if s.Status == StatusRejected {
		evType = EventRejected
	}
	w.publish(ctx, Event{Type: evType, Suggestion: s, ActorID: req.ActorID, Time: now})
	log.Info("suggestions: resolved")
	return s, nil
}

func (w *Workflow) publish(ctx context.Context, ev Event) {
	if w.Publisher == nil {
		return
	}
	if err := w.Publisher.Publish(ctx, ev); err != nil {
		w.logger().Warn("suggestions: failed to publish event",
			zap.String("id", ev.Suggestion.ID), zap.String("event", string(ev.Type)), zap.Error(err))
	}
}
