package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/user/eventify/internal/api"
	"github.com/user/eventify/internal/forms"
	"github.com/user/eventify/internal/types"
)

type mockEventsAPI struct {
	joinCalls   atomic.Int32
	joinErr     error
	created     *api.EventPayload
	all         []types.EventRecord
	mine        []types.EventRecord
	lastUpdated *api.EventPayload
}

func (m *mockEventsAPI) AllEvents(ctx context.Context) ([]types.EventRecord, error) {
	return m.all, nil
}

func (m *mockEventsAPI) MyEvents(ctx context.Context) ([]types.EventRecord, error) {
	return m.mine, nil
}

func (m *mockEventsAPI) CreateEvent(ctx context.Context, payload api.EventPayload) (*types.EventRecord, error) {
	m.created = &payload
	return &types.EventRecord{ID: "new", Title: payload.Title}, nil
}

func (m *mockEventsAPI) UpdateEvent(ctx context.Context, id types.EventID, payload api.EventPayload) error {
	m.lastUpdated = &payload
	return nil
}

func (m *mockEventsAPI) DeleteEvent(ctx context.Context, id types.EventID) error {
	return nil
}

func (m *mockEventsAPI) JoinEvent(ctx context.Context, id types.EventID, userID types.UserID) error {
	m.joinCalls.Add(1)
	return m.joinErr
}

func eventForm(title, dateTime string) forms.EventForm {
	return forms.EventForm{
		Title:       title,
		DateTime:    dateTime,
		Location:    "Dhaka",
		Description: "An event.",
	}
}

func TestJoinIssuesOneMutation(t *testing.T) {
	mock := &mockEventsAPI{}
	svc := NewService(mock)
	event := &types.EventRecord{ID: "e1", Title: "Gala"}

	status, err := svc.Join(context.Background(), event, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if status != StatusJoined {
		t.Errorf("expected StatusJoined, got %v", status)
	}
	if mock.joinCalls.Load() != 1 {
		t.Errorf("expected one mutation, got %d", mock.joinCalls.Load())
	}
}

func TestJoinTwiceShortCircuits(t *testing.T) {
	mock := &mockEventsAPI{}
	svc := NewService(mock)
	event := &types.EventRecord{ID: "e1", Title: "Gala"}

	if _, err := svc.Join(context.Background(), event, "u1"); err != nil {
		t.Fatal(err)
	}
	// The caller refetched; the server now lists u1 as attending.
	event.Attendees = []types.UserID{"u1"}

	status, err := svc.Join(context.Background(), event, "u1")
	if err != nil {
		t.Fatalf("already-joined is not an error: %v", err)
	}
	if status != StatusAlreadyJoined {
		t.Errorf("expected StatusAlreadyJoined, got %v", status)
	}
	if mock.joinCalls.Load() != 1 {
		t.Errorf("expected exactly one mutation across both joins, got %d", mock.joinCalls.Load())
	}
}

func TestJoinRequiresUser(t *testing.T) {
	svc := NewService(&mockEventsAPI{})
	_, err := svc.Join(context.Background(), &types.EventRecord{ID: "e1"}, "")
	if !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("expected ErrNotSignedIn, got %v", err)
	}
}

func TestCreateValidatesBeforeNetwork(t *testing.T) {
	mock := &mockEventsAPI{}
	svc := NewService(mock)

	_, err := svc.Create(context.Background(), eventForm("", "2026-09-10T10:00"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if mock.created != nil {
		t.Error("invalid form must not reach the network")
	}
}

func TestCreateInjectsZeroAttendeeCount(t *testing.T) {
	mock := &mockEventsAPI{}
	svc := NewService(mock)

	created, err := svc.Create(context.Background(), eventForm("Launch", "2026-10-01T18:00"))
	if err != nil {
		t.Fatal(err)
	}
	if created.ID != "new" {
		t.Errorf("unexpected created record: %+v", created)
	}
	if mock.created == nil || mock.created.AttendeeCount != 0 {
		t.Errorf("expected attendeeCount 0 in payload, got %+v", mock.created)
	}
}

func TestUpdateValidatesDateTime(t *testing.T) {
	mock := &mockEventsAPI{}
	svc := NewService(mock)

	err := svc.Update(context.Background(), "e1", eventForm("Launch", "not-a-date"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if mock.lastUpdated != nil {
		t.Error("invalid form must not reach the network")
	}
}
