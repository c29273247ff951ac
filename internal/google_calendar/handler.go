package googlecalendar

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot-api/internal/auth"
	"github.com/taskpilot/taskpilot-api/internal/config"
	"github.com/taskpilot/taskpilot-api/internal/credential"
)

type Handler struct {
	service CalendarService
	store   credential.Store
}

func NewHandler(service CalendarService, store credential.Store) *Handler {
	return &Handler{service: service, store: store}
}

func (h *Handler) Authorize(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated for calendar authorization")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	state, err := EncodeState(AuthState{
		UserID:   claims.UserID,
		ReturnTo: r.URL.Query().Get("returnTo"),
	})
	if err != nil {
		log.WithError(err).Error("Failed to encode oauth state")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{
		"url": h.service.AuthCodeURL(state),
	})
}

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<body>
<script>
if (window.opener) {
	window.opener.postMessage("calendar-connected", "*");
	window.close();
} else {
	window.location.replace({{.ReturnTo}});
}
</script>
<p>Google Calendar connected. You can close this window.</p>
</body>
</html>`))

func (h *Handler) OAuth2Callback(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	state, err := DecodeState(r.URL.Query().Get("state"))
	if err != nil {
		log.WithError(err).Warn("Rejected oauth callback with invalid state")
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}

	userID, err := uuid.Parse(state.UserID)
	if err != nil {
		log.WithError(err).Warn("Rejected oauth callback with invalid user identity")
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}

	tok, err := h.service.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		log.WithError(err).Error("Failed to exchange authorization code")
		http.Error(w, "failed to complete google authorization", http.StatusInternalServerError)
		return
	}

	if err := h.store.Merge(r.Context(), userID, tok); err != nil {
		log.WithError(err).Error("Failed to persist google credentials")
		http.Error(w, "failed to store google credentials", http.StatusInternalServerError)
		return
	}

	log.WithField("user_id", userID).Info("Google Calendar connected")

	returnTo := state.ReturnTo
	if returnTo == "" {
		returnTo = "/"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := callbackPage.Execute(w, map[string]string{"ReturnTo": returnTo}); err != nil {
		fmt.Fprint(w, "Google Calendar connected.")
	}
}
