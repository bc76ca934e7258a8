package models

import "github.com/go-playground/validator/v10"

// FirstLoginEvent is the identity provider's payload for a user's first
// login. It triggers provisioning of a dedicated storage actor.
type FirstLoginEvent struct {
	UID   string `json:"uid" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// Validate checks the event against its field constraints.
func (e *FirstLoginEvent) Validate() error {
	v := validator.New()
	return v.Struct(e)
}
