package googlecalendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot-api/internal/config"
	"github.com/taskpilot/taskpilot-api/internal/credential"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var (
	// ErrNotConnected means the user never completed the consent flow.
	// Callers treat it as "sync skipped", not as a failure.
	ErrNotConnected = errors.New("user has no google calendar connection")

	ErrExchangeFailed = errors.New("google authorization code exchange failed")
	ErrProvider       = errors.New("google calendar provider error")
)

// Capability is a bound, ready-to-call calendar surface for one user.
// Events live in the provider's default calendar.
type Capability interface {
	InsertEvent(ctx context.Context, event *gcal.Event) (*gcal.Event, error)
	UpdateEvent(ctx context.Context, eventID string, event *gcal.Event) error
	DeleteEvent(ctx context.Context, eventID string) error
}

type CalendarService interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Resolve(ctx context.Context, userID uuid.UUID) (Capability, error)
}

type calendarService struct {
	store       credential.Store
	oauthConfig *oauth2.Config
}

func NewCalendarService(store credential.Store, oauthConfig *oauth2.Config) CalendarService {
	return &calendarService{
		store:       store,
		oauthConfig: oauthConfig,
	}
}

// AuthCodeURL builds the consent URL. Offline access makes Google issue a
// refresh token, and forcing the approval prompt re-issues one even when the
// user already granted consent before.
func (s *calendarService) AuthCodeURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (s *calendarService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	return tok, nil
}

func (s *calendarService) Resolve(ctx context.Context, userID uuid.UUID) (Capability, error) {
	log := config.WithContext(ctx)

	tok, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tok == nil || (tok.AccessToken == "" && tok.RefreshToken == "") {
		return nil, ErrNotConnected
	}

	sess := newSession(s.oauthConfig, userID, tok, s.store)
	srv, err := sess.calendarClient(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to build calendar client")
		return nil, err
	}

	return &googleCapability{events: srv.Events}, nil
}

type googleCapability struct {
	events *gcal.EventsService
}

func (c *googleCapability) InsertEvent(ctx context.Context, event *gcal.Event) (*gcal.Event, error) {
	return c.events.Insert("primary", event).Context(ctx).Do()
}

func (c *googleCapability) UpdateEvent(ctx context.Context, eventID string, event *gcal.Event) error {
	_, err := c.events.Update("primary", eventID, event).Context(ctx).Do()
	return err
}

func (c *googleCapability) DeleteEvent(ctx context.Context, eventID string) error {
	return c.events.Delete("primary", eventID).Context(ctx).Do()
}

func newCalendarAPI(ctx context.Context, ts oauth2.TokenSource) (*gcal.Service, error) {
	return gcal.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
}
