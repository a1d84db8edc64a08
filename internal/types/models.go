// internal/types/models.go
package types

import (
	"strings"
	"time"
)

// UserRecord is the server's view of an account. The client treats it as
// immutable; it only changes through session operations.
type UserRecord struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL,omitempty"`
}

// EventRecord is a read-through copy of a server-owned event. DateTime is
// kept as the raw wire string because the server is known to hand back
// records with missing or malformed timestamps; parsing is deferred to the
// query engine, which drops records it cannot parse.
type EventRecord struct {
	ID            EventID  `json:"_id"`
	Title         string   `json:"title"`
	DateTime      string   `json:"dateTime"`
	Location      string   `json:"location"`
	Description   string   `json:"description"`
	AttendeeCount int      `json:"attendeeCount"`
	Attendees     []UserID `json:"attendees,omitempty"`
	OwnerID       UserID   `json:"ownerId,omitempty"`
}

// HasAttendee reports whether the given user appears in the attendee roster.
func (e *EventRecord) HasAttendee(id UserID) bool {
	for _, a := range e.Attendees {
		if a == id {
			return true
		}
	}
	return false
}

// dateTimeLayouts are the wire formats accepted for EventRecord.DateTime.
// The browser client produced datetime-local values without a zone; the
// server stores full RFC 3339 instants.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDateTime parses an event timestamp from any accepted wire format.
// Zone-less formats are interpreted in local time, matching how the
// original client rendered them.
func ParseDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// When returns the parsed instant of the event, if valid.
func (e *EventRecord) When() (time.Time, bool) {
	return ParseDateTime(e.DateTime)
}

// Credentials is what survives a restart: the bearer token plus the cached
// user it was issued to. The cached user may be stale; VerifySession
// replaces it with the server's canonical record.
type Credentials struct {
	Token string      `json:"token"`
	User  *UserRecord `json:"user"`
}
