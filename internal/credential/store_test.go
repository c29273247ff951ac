package credential_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot-api/internal/config"
	"github.com/taskpilot/taskpilot-api/internal/credential"
	"golang.org/x/oauth2"
)

type fakeRepository struct {
	creds map[string]*credential.SyncCredential
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{creds: make(map[string]*credential.SyncCredential)}
}

func (r *fakeRepository) Get(userID uuid.UUID, provider string) (*credential.SyncCredential, error) {
	cred, ok := r.creds[userID.String()+"/"+provider]
	if !ok {
		return nil, nil
	}
	copied := *cred
	return &copied, nil
}

func (r *fakeRepository) Save(cred *credential.SyncCredential) error {
	copied := *cred
	r.creds[cred.UserID.String()+"/"+cred.Provider] = &copied
	return nil
}

func TestMain(m *testing.M) {
	os.Setenv("CRYPTO_KEY", "01234567890123456789012345678901")
	config.InitCrypto()
	os.Exit(m.Run())
}

func TestStoreGetAbsent(t *testing.T) {
	store := credential.NewStore(newFakeRepository(), "calendar.events")

	tok, err := store.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if tok != nil {
		t.Errorf("expected nil token for unconnected user, got %+v", tok)
	}
}

func TestStoreMergeRoundTrip(t *testing.T) {
	store := credential.NewStore(newFakeRepository(), "calendar.events")
	userID := uuid.New()
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)

	err := store.Merge(context.Background(), userID, &oauth2.Token{
		AccessToken:  "access-a",
		RefreshToken: "refresh-r",
		Expiry:       expiry,
	})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	tok, err := store.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if tok == nil {
		t.Fatal("expected stored token, got nil")
	}
	if tok.AccessToken != "access-a" {
		t.Errorf("wrong access token: %q", tok.AccessToken)
	}
	if tok.RefreshToken != "refresh-r" {
		t.Errorf("wrong refresh token: %q", tok.RefreshToken)
	}
	if !tok.Expiry.Equal(expiry) {
		t.Errorf("wrong expiry: %v, want %v", tok.Expiry, expiry)
	}
}

func TestStoreMergePreservesRefreshToken(t *testing.T) {
	repo := newFakeRepository()
	store := credential.NewStore(repo, "calendar.events")
	userID := uuid.New()
	ctx := context.Background()

	if err := store.Merge(ctx, userID, &oauth2.Token{
		AccessToken:  "access-a",
		RefreshToken: "refresh-r",
	}); err != nil {
		t.Fatalf("initial Merge failed: %v", err)
	}

	// Refresh responses typically carry a new access token only.
	if err := store.Merge(ctx, userID, &oauth2.Token{AccessToken: "access-b"}); err != nil {
		t.Fatalf("refresh Merge failed: %v", err)
	}

	tok, err := store.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if tok.AccessToken != "access-b" {
		t.Errorf("access token not updated: %q", tok.AccessToken)
	}
	if tok.RefreshToken != "refresh-r" {
		t.Errorf("refresh token not preserved: %q", tok.RefreshToken)
	}

	if len(repo.creds) != 1 {
		t.Errorf("expected a single credential row per user/provider, got %d", len(repo.creds))
	}
}

func TestStoreEncryptsAtRest(t *testing.T) {
	repo := newFakeRepository()
	store := credential.NewStore(repo, "calendar.events")
	userID := uuid.New()

	if err := store.Merge(context.Background(), userID, &oauth2.Token{
		AccessToken:  "access-a",
		RefreshToken: "refresh-r",
	}); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	cred := repo.creds[userID.String()+"/"+credential.ProviderGoogle]
	if cred.EncryptedAccessToken == "access-a" {
		t.Error("access token stored in plaintext")
	}
	if cred.EncryptedRefreshToken == "refresh-r" {
		t.Error("refresh token stored in plaintext")
	}
}
