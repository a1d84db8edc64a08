// Package events orchestrates event operations over the remote API: the
// public listing, the user's own events, create/update/delete, and joining.
package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/eventify/internal/api"
	"github.com/user/eventify/internal/forms"
	"github.com/user/eventify/internal/types"
)

// ErrNotSignedIn is returned by operations that need an authenticated user.
var ErrNotSignedIn = errors.New("not signed in")

// JoinStatus reports how a join attempt concluded.
type JoinStatus int

const (
	// StatusJoined means the server accepted the attendee update.
	StatusJoined JoinStatus = iota
	// StatusAlreadyJoined means the user was already on the roster and no
	// request was sent.
	StatusAlreadyJoined
)

// EventsAPI is the slice of the remote API the service needs.
type EventsAPI interface {
	AllEvents(ctx context.Context) ([]types.EventRecord, error)
	MyEvents(ctx context.Context) ([]types.EventRecord, error)
	CreateEvent(ctx context.Context, payload api.EventPayload) (*types.EventRecord, error)
	UpdateEvent(ctx context.Context, id types.EventID, payload api.EventPayload) error
	DeleteEvent(ctx context.Context, id types.EventID) error
	JoinEvent(ctx context.Context, id types.EventID, userID types.UserID) error
}

type Service struct {
	api EventsAPI
}

func NewService(eventsAPI EventsAPI) *Service {
	return &Service{api: eventsAPI}
}

// List returns the public event collection.
func (s *Service) List(ctx context.Context) ([]types.EventRecord, error) {
	return s.api.AllEvents(ctx)
}

// Mine returns the current user's own events.
func (s *Service) Mine(ctx context.Context) ([]types.EventRecord, error) {
	return s.api.MyEvents(ctx)
}

// Create validates the form and creates the event. New events always start
// with an empty roster.
func (s *Service) Create(ctx context.Context, form forms.EventForm) (*types.EventRecord, error) {
	if err := forms.Check(form); err != nil {
		return nil, err
	}
	created, err := s.api.CreateEvent(ctx, api.EventPayload{
		Title:         form.Title,
		DateTime:      form.DateTime,
		Location:      form.Location,
		Description:   form.Description,
		AttendeeCount: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

// Update validates the form and replaces the event's writable fields.
func (s *Service) Update(ctx context.Context, id types.EventID, form forms.EventForm) error {
	if err := forms.Check(form); err != nil {
		return err
	}
	if err := s.api.UpdateEvent(ctx, id, api.EventPayload{
		Title:       form.Title,
		DateTime:    form.DateTime,
		Location:    form.Location,
		Description: form.Description,
	}); err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// Delete removes an event the user owns.
func (s *Service) Delete(ctx context.Context, id types.EventID) error {
	if err := s.api.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// Join adds the user to the event's roster. Joining an event the user is
// already attending short-circuits without a network call; the server's
// attendee count stays authoritative either way, so callers refetch the
// collection instead of patching local copies.
func (s *Service) Join(ctx context.Context, event *types.EventRecord, userID types.UserID) (JoinStatus, error) {
	if userID == "" {
		return 0, ErrNotSignedIn
	}
	if event.HasAttendee(userID) {
		return StatusAlreadyJoined, nil
	}
	if err := s.api.JoinEvent(ctx, event.ID, userID); err != nil {
		return 0, fmt.Errorf("join event: %w", err)
	}
	return StatusJoined, nil
}
