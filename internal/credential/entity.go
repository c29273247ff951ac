package credential

import (
	"time"

	"github.com/google/uuid"
)

const ProviderGoogle = "google"

// SyncCredential holds the OAuth token material for one (user, provider)
// pair. Token fields are encrypted at rest; this table is kept apart from
// task data because of its access scope.
type SyncCredential struct {
	ID                    uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	UserID                uuid.UUID  `gorm:"column:user_id;not null;uniqueIndex:idx_sync_credentials_user_provider" json:"user_id"`
	Provider              string     `gorm:"not null;uniqueIndex:idx_sync_credentials_user_provider" json:"provider"`
	EncryptedAccessToken  string     `json:"-"`
	EncryptedRefreshToken string     `json:"-"`
	Expiry                *time.Time `json:"expiry,omitempty"`
	Scope                 string     `json:"scope"`
	EncryptedTokenBlob    string     `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (SyncCredential) TableName() string {
	return "sync_credentials"
}
