package googlecalendar

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// AuthState is the opaque payload threaded through the OAuth redirect so the
// callback can recover the acting user and the post-auth redirect target.
// Treated as untrusted input on the way back.
type AuthState struct {
	UserID   string `json:"uid"`
	ReturnTo string `json:"return_to,omitempty"`
}

var ErrInvalidState = errors.New("oauth state is invalid")

func EncodeState(state AuthState) (string, error) {
	b, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeState(raw string) (AuthState, error) {
	var state AuthState
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return state, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if err := json.Unmarshal(b, &state); err != nil {
		return state, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if state.UserID == "" {
		return state, fmt.Errorf("%w: missing user identity", ErrInvalidState)
	}
	return state, nil
}
