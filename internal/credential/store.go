package credential

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot-api/internal/config"
	"golang.org/x/oauth2"
)

// Store is the credential lifecycle for one provider. Get returns nil when
// the user never connected; Merge folds new token material into whatever is
// stored, retaining fields the provider omitted (refresh tokens are usually
// absent from refresh responses).
type Store interface {
	Get(ctx context.Context, userID uuid.UUID) (*oauth2.Token, error)
	Merge(ctx context.Context, userID uuid.UUID, tok *oauth2.Token) error
}

type store struct {
	repo     Repository
	provider string
	scope    string
}

func NewStore(repo Repository, scope string) Store {
	return &store{
		repo:     repo,
		provider: ProviderGoogle,
		scope:    scope,
	}
}

func (s *store) Get(ctx context.Context, userID uuid.UUID) (*oauth2.Token, error) {
	log := config.WithContext(ctx)

	cred, err := s.repo.Get(userID, s.provider)
	if err != nil {
		log.WithError(err).Error("Failed to load sync credential")
		return nil, fmt.Errorf("credential store: %w", err)
	}
	if cred == nil {
		return nil, nil
	}

	tok := &oauth2.Token{TokenType: "Bearer"}
	if cred.EncryptedAccessToken != "" {
		accessToken, err := config.Decrypt(cred.EncryptedAccessToken)
		if err != nil {
			log.WithError(err).Error("Failed to decrypt access token")
			return nil, fmt.Errorf("credential store: %w", err)
		}
		tok.AccessToken = accessToken
	}
	if cred.EncryptedRefreshToken != "" {
		refreshToken, err := config.Decrypt(cred.EncryptedRefreshToken)
		if err != nil {
			log.WithError(err).Error("Failed to decrypt refresh token")
			return nil, fmt.Errorf("credential store: %w", err)
		}
		tok.RefreshToken = refreshToken
	}
	if cred.Expiry != nil {
		tok.Expiry = *cred.Expiry
	}
	return tok, nil
}

func (s *store) Merge(ctx context.Context, userID uuid.UUID, tok *oauth2.Token) error {
	log := config.WithContext(ctx)

	cred, err := s.repo.Get(userID, s.provider)
	if err != nil {
		log.WithError(err).Error("Failed to load sync credential for merge")
		return fmt.Errorf("credential store: %w", err)
	}
	if cred == nil {
		cred = &SyncCredential{
			ID:       uuid.New(),
			UserID:   userID,
			Provider: s.provider,
			Scope:    s.scope,
		}
	}

	if tok.AccessToken != "" {
		encrypted, err := config.Encrypt(tok.AccessToken)
		if err != nil {
			return fmt.Errorf("credential store: %w", err)
		}
		cred.EncryptedAccessToken = encrypted
	}
	if tok.RefreshToken != "" {
		encrypted, err := config.Encrypt(tok.RefreshToken)
		if err != nil {
			return fmt.Errorf("credential store: %w", err)
		}
		cred.EncryptedRefreshToken = encrypted
	}
	if !tok.Expiry.IsZero() {
		expiry := tok.Expiry
		cred.Expiry = &expiry
	}

	blob, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("credential store: %w", err)
	}
	encryptedBlob, err := config.Encrypt(string(blob))
	if err != nil {
		return fmt.Errorf("credential store: %w", err)
	}
	cred.EncryptedTokenBlob = encryptedBlob

	if err := s.repo.Save(cred); err != nil {
		log.WithError(err).Error("Failed to persist sync credential")
		return fmt.Errorf("credential store: %w", err)
	}
	return nil
}
