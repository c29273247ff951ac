package googlecalendar

import (
	"os"

	"github.com/taskpilot/taskpilot-api/internal/credential"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
)

type GoogleCalendarContainer struct {
	CalendarService CalendarService
	Reconciler      Reconciler
	Handler         *Handler
}

func NewGoogleCalendarContainer(credRepo credential.Repository) *GoogleCalendarContainer {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	redirectURL := os.Getenv("GOOGLE_REDIRECT_URL")

	oauthConfig := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{gcal.CalendarEventsScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}

	store := credential.NewStore(credRepo, gcal.CalendarEventsScope)
	calendarService := NewCalendarService(store, oauthConfig)
	reconciler := NewReconciler(calendarService)
	handler := NewHandler(calendarService, store)

	return &GoogleCalendarContainer{
		CalendarService: calendarService,
		Reconciler:      reconciler,
		Handler:         handler,
	}
}
