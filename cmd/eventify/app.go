package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/user/eventify/internal/api"
	"github.com/user/eventify/internal/config"
	"github.com/user/eventify/internal/events"
	"github.com/user/eventify/internal/gateway"
	"github.com/user/eventify/internal/session"
)

// app wires the config, credential store, gateway clients, API bindings,
// session manager, and events service together for the commands.
type app struct {
	cfg     *config.Config
	store   *session.Store
	session *session.Manager
	events  *events.Service
}

func newApp() *app {
	cfg := loadConfig()
	setupLogging(cfg)

	store := session.NewStore(cfg.DataDir)
	httpClient := &http.Client{Timeout: time.Duration(cfg.HTTPTimeout) * time.Second}

	public := gateway.New(cfg.BaseURL, gateway.WithHTTPClient(httpClient))

	// The session manager's own calls carry the token but skip the
	// auth-failure interception so a rejected verification can't recurse
	// into another logout.
	auth := gateway.New(cfg.BaseURL,
		gateway.WithHTTPClient(httpClient),
		gateway.WithTokenSource(store.Token))

	// The manager doesn't exist yet when the secure gateway is built, so
	// the logout hook resolves it late. Requests only flow after newApp
	// returns.
	var mgr *session.Manager
	secure := gateway.New(cfg.BaseURL,
		gateway.WithHTTPClient(httpClient),
		gateway.WithTokenSource(store.Token),
		gateway.WithAuthFailureHandler(
			func(ctx context.Context) error {
				if mgr == nil {
					return nil
				}
				return mgr.LogOut(ctx)
			},
			func() {
				fmt.Fprintln(os.Stderr, "Your session has expired. Run `eventify login` to sign in again.")
			},
		))

	apiClient := api.New(public, auth, secure)
	mgr = session.NewManager(store, apiClient)

	return &app{
		cfg:     cfg,
		store:   store,
		session: mgr,
		events:  events.NewService(apiClient),
	}
}

// requireUser verifies the stored session and returns the signed-in user,
// or an error telling the user to log in.
func (a *app) requireUser(ctx context.Context) (userID string, err error) {
	if err := a.session.VerifySession(ctx); err != nil {
		return "", fmt.Errorf("verify session: %w", err)
	}
	user := a.session.CurrentUser()
	if user == nil {
		return "", fmt.Errorf("not signed in; run `eventify login` first")
	}
	return string(user.ID), nil
}
