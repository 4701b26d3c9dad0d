package store

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/trust-assembly/headline-engine/model"
	"gorm.io/gorm"
)

// GetUserByIdentity resolves a user through the identity_providers linkage.
// Returns nil without error when no link exists.
func (s *Store) GetUserByIdentity(providerType string, remoteID string) (*model.User, error) {
	var identity model.IdentityProvider
	err := s.DB.
		Where("provider_type = ? AND remote_id = ?", providerType, remoteID).
		Preload("User").
		First(&identity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to look up identity")
	}
	return identity.User, nil
}

// GetUserByID fetches a user by primary key. Returns nil without error when
// no such user exists.
func (s *Store) GetUserByID(id string) (*model.User, error) {
	var user model.User
	err := s.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to look up user")
	}
	return &user, nil
}

// RegisterUser creates the user and its identity link in one shot. Racing
// registrations of the same identity resolve through the unique index on
// (remote_id, provider_type): on conflict the existing user is returned.
func (s *Store) RegisterUser(displayName string, email string, providerType string, remoteID string) (*model.User, error) {
	if existing, err := s.GetUserByIdentity(providerType, remoteID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	user := model.User{
		Id:          uuid.New().String(),
		Email:       email,
		DisplayName: displayName,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			// Email already registered: link the new identity to that account.
			var byEmail model.User
			if rerr := tx.Where("email = ?", email).First(&byEmail).Error; rerr != nil {
				return err
			}
			user = byEmail
		}
		identity := model.IdentityProvider{
			Id:           uuid.New().String(),
			UserID:       user.Id,
			RemoteId:     remoteID,
			ProviderType: providerType,
		}
		return tx.Create(&identity).Error
	})
	if err != nil {
		// A concurrent register may have won the race on the identity index.
		if existing, rerr := s.GetUserByIdentity(providerType, remoteID); rerr == nil && existing != nil {
			return existing, nil
		}
		return nil, errors.Wrap(err, "fail to register user")
	}
	return &user, nil
}
