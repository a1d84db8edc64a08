// Package api holds the typed bindings for the remote Eventify service.
// Endpoints are split across three gateway clients: public (no credential),
// auth (credential attached but no failure interception, used by the
// session manager so a rejected verification doesn't recursively force a
// logout), and secure (credential plus the full 401/403 pipeline).
package api

import (
	"context"
	"fmt"

	"github.com/user/eventify/internal/gateway"
	"github.com/user/eventify/internal/types"
)

type Client struct {
	public *gateway.Client
	auth   *gateway.Client
	secure *gateway.Client
}

// New creates a Client over the three gateway variants.
func New(public, auth, secure *gateway.Client) *Client {
	return &Client{public: public, auth: auth, secure: secure}
}

// RegisterRequest is the POST /register body.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	PhotoURL string `json:"photoURL,omitempty"`
}

// loginRequest is the POST /login body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by /register, /login, and /refresh-token.
type AuthResponse struct {
	User  *types.UserRecord `json:"user"`
	Token string            `json:"token"`
}

// VerifyResponse is returned by /verify-token.
type VerifyResponse struct {
	Valid bool              `json:"valid"`
	User  *types.UserRecord `json:"user,omitempty"`
}

// EventPayload is the writable field set for event create/update.
type EventPayload struct {
	Title         string `json:"title"`
	DateTime      string `json:"dateTime"`
	Location      string `json:"location"`
	Description   string `json:"description"`
	AttendeeCount int    `json:"attendeeCount"`
}

// joinRequest is the PATCH /events/all/:id body.
type joinRequest struct {
	UserID types.UserID `json:"user_id"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.public.Post(ctx, "/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.public.Post(ctx, "/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout informs the server so it can invalidate the token. Callers treat
// failures as non-fatal; local teardown happens regardless.
func (c *Client) Logout(ctx context.Context) error {
	return c.auth.Post(ctx, "/logout", struct{}{}, nil)
}

func (c *Client) VerifyToken(ctx context.Context) (*VerifyResponse, error) {
	var resp VerifyResponse
	if err := c.auth.Get(ctx, "/verify-token", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) RefreshToken(ctx context.Context) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.public.Post(ctx, "/refresh-token", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AllEvents returns every event visible to any visitor.
func (c *Client) AllEvents(ctx context.Context) ([]types.EventRecord, error) {
	var events []types.EventRecord
	if err := c.public.Get(ctx, "/events/all", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// MyEvents returns the authenticated user's own events.
func (c *Client) MyEvents(ctx context.Context) ([]types.EventRecord, error) {
	var events []types.EventRecord
	if err := c.secure.Get(ctx, "/events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) CreateEvent(ctx context.Context, payload EventPayload) (*types.EventRecord, error) {
	var created types.EventRecord
	if err := c.secure.Post(ctx, "/events", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id types.EventID, payload EventPayload) error {
	return c.secure.Put(ctx, fmt.Sprintf("/events/%s", id), payload, nil)
}

func (c *Client) DeleteEvent(ctx context.Context, id types.EventID) error {
	return c.secure.Delete(ctx, fmt.Sprintf("/events/%s", id))
}

// JoinEvent adds the user to the event's attendee roster.
func (c *Client) JoinEvent(ctx context.Context, id types.EventID, userID types.UserID) error {
	return c.secure.Patch(ctx, fmt.Sprintf("/events/all/%s", id), joinRequest{UserID: userID}, nil)
}
