package domain

import "time"

// Profile holds per-owner preferences. There is exactly one per owner.
type Profile struct {
	OwnerID            string        `json:"owner_id"`
	Email              string        `json:"email"`
	DefaultLifetime    time.Duration `json:"default_lifetime"`
	HideExpired        bool          `json:"hide_expired"`
	DeleteExpired      bool          `json:"delete_expired"`
	DefaultNotify      NotifyPolicy  `json:"default_notify"`
	ReceiveNewsletters bool          `json:"receive_newsletters"`
}

// NewProfile returns the defaults applied when an owner is first seen.
func NewProfile(owner Owner) *Profile {
	return &Profile{
		OwnerID:       owner.ID,
		Email:         owner.Email,
		HideExpired:   true,
		DefaultNotify: NotifyNever,
	}
}
