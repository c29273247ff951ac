package credential

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Get(userID uuid.UUID, provider string) (*SyncCredential, error)
	Save(cred *SyncCredential) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(userID uuid.UUID, provider string) (*SyncCredential, error) {
	var cred SyncCredential
	if err := r.db.First(&cred, "user_id = ? AND provider = ?", userID, provider).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

func (r *repository) Save(cred *SyncCredential) error {
	return r.db.Save(cred).Error
}
