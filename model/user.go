package model

import "time"

/*

User is a registered account resolved through an external identity provider

Id: primary key
CreatedAt: time when entity is created
UpdatedAt: time when entity is updated

Email: globally unique
DisplayName: name from the identity payload
*/
type User struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Email       string `gorm:"uniqueIndex"`
	DisplayName string
}

/*

IdentityProvider links a User to an external identity

One row per (remote_id, provider_type) pair. Login resolves a user through
this table; register creates the user and the link together.

Id: primary key
CreatedAt: time when entity is created
UserID:
User: linked account, "belongs-to" relation, cascade on delete

RemoteId: subject identifier issued by the provider
ProviderType: for example "google"
*/
type IdentityProvider struct {
	Id           string `gorm:"primaryKey"`
	CreatedAt    time.Time
	UserID       string `gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User         *User
	RemoteId     string `gorm:"uniqueIndex:idx_identity_remote_provider"`
	ProviderType string `gorm:"uniqueIndex:idx_identity_remote_provider"`
}
