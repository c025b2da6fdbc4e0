// Package session manages authenticated identities and their persisted credential pairs.
package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/UnknownOlympus/vetscout/internal/metrics"
	"github.com/UnknownOlympus/vetscout/internal/models"
)

// ErrEmptyToken is returned by Login when no token is given.
var ErrEmptyToken = errors.New("token must not be empty")

// Manager is the only reader and writer of sessions. Each session is identified by
// the token its client presents; the store is the single source of truth.
type Manager struct {
	store   Store
	log     *slog.Logger
	metrics *metrics.Metrics
}

func NewManager(store Store, log *slog.Logger, metrics *metrics.Metrics) *Manager {
	return &Manager{store: store, log: log, metrics: metrics}
}

// Login persists the pair, making token an authenticated credential.
func (m *Manager) Login(ctx context.Context, token, userID string) error {
	if token == "" {
		return ErrEmptyToken
	}

	if err := m.store.Save(ctx, models.Session{Token: token, UserID: userID}); err != nil {
		return err
	}

	m.log.InfoContext(ctx, "User logged in", "user_id", userID)
	m.metrics.Sessions.WithLabelValues("login").Inc()

	return nil
}

// Logout removes the pair held by token. Unknown tokens are ignored.
func (m *Manager) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := m.store.Delete(ctx, token); err != nil {
		return err
	}

	m.log.InfoContext(ctx, "User logged out")
	m.metrics.Sessions.WithLabelValues("logout").Inc()

	return nil
}

// Current returns the session held by token, if any.
func (m *Manager) Current(ctx context.Context, token string) (models.Session, bool, error) {
	if token == "" {
		return models.Session{}, false, nil
	}

	current, err := m.store.Load(ctx, token)
	if err != nil {
		return models.Session{}, false, err
	}
	if current == nil {
		return models.Session{}, false, nil
	}

	return *current, true, nil
}

// State returns the AuthState view of the session held by token.
// A store failure is logged and reported as unauthenticated.
func (m *Manager) State(ctx context.Context, token string) models.AuthState {
	current, ok, err := m.Current(ctx, token)
	if err != nil {
		m.log.ErrorContext(ctx, "Failed to load session", "error", err)
		return models.AuthState{}
	}
	if !ok {
		return models.AuthState{}
	}

	state := models.AuthState{IsAuthenticated: true, Token: &current.Token}
	if current.UserID != "" {
		state.UserID = &current.UserID
	}

	return state
}
