package googlecalendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot-api/internal/config"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
)

// RefreshSink receives token material the provider issues while a session is
// in use, so refreshed access tokens outlive the request that triggered the
// refresh. credential.Store satisfies it.
type RefreshSink interface {
	Merge(ctx context.Context, userID uuid.UUID, tok *oauth2.Token) error
}

// session binds one user's stored credentials to a single OAuth2
// authorization-code flow. Constructed per request from credentials loaded
// fresh from the store; never shared across requests.
type session struct {
	cfg    *oauth2.Config
	userID uuid.UUID
	stored *oauth2.Token
	sink   RefreshSink
}

func newSession(cfg *oauth2.Config, userID uuid.UUID, stored *oauth2.Token, sink RefreshSink) *session {
	return &session{
		cfg:    cfg,
		userID: userID,
		stored: stored,
		sink:   sink,
	}
}

// calendarClient refreshes the stored token when possible, persists any new
// token material through the sink, and returns a Calendar API client.
func (s *session) calendarClient(ctx context.Context) (*gcal.Service, error) {
	seed := *s.stored
	if seed.RefreshToken != "" {
		// A stale expiry forces the oauth2 library through a refresh, so a
		// possibly expired access token is replaced before the first call.
		seed.Expiry = time.Now().Add(-time.Hour)
	}

	ts := s.cfg.TokenSource(ctx, &seed)
	fresh, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}

	if err := s.persistRefresh(ctx, fresh); err != nil {
		return nil, err
	}

	srv, err := newCalendarAPI(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	return srv, nil
}

func (s *session) persistRefresh(ctx context.Context, fresh *oauth2.Token) error {
	if s.sink == nil {
		return nil
	}

	sameAccess := fresh.AccessToken == s.stored.AccessToken
	sameRefresh := fresh.RefreshToken == "" || fresh.RefreshToken == s.stored.RefreshToken
	if sameAccess && sameRefresh {
		return nil
	}

	log := config.WithContext(ctx)
	log.WithField("user_id", s.userID).Info("Google token refreshed, persisting new material")
	return s.sink.Merge(ctx, s.userID, fresh)
}
