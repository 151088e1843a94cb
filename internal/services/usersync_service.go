package services

import (
	"errors"
	"strings"

	"sellerhub/internal/domain"
	"sellerhub/internal/repos"
)

// Errors the webhook handler maps to response codes.
var (
	ErrEventInvalid   = errors.New("event is missing required fields")
	ErrNoPrimaryEmail = errors.New("primary email not found")
	ErrUserExists     = errors.New("user already exists")
	ErrUserMissing    = errors.New("user not found")
	ErrNoChanges      = errors.New("no relevant fields to update")
)

// IdentityEvent is the verified envelope delivered by the identity
// provider. Shapes follow the provider's user.* event payloads.
type IdentityEvent struct {
	Type string       `json:"type"`
	Data IdentityUser `json:"data"`
}

type IdentityUser struct {
	ID                    string         `json:"id"`
	EmailAddresses        []IdentityMail `json:"email_addresses"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	FirstName             string         `json:"first_name"`
	LastName              string         `json:"last_name"`
}

type IdentityMail struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// primaryEmail resolves the address flagged primary; empty when the list
// carries no match.
func (u IdentityUser) primaryEmail() string {
	for _, m := range u.EmailAddresses {
		if m.ID == u.PrimaryEmailAddressID {
			return m.EmailAddress
		}
	}
	return ""
}

func (u IdentityUser) fullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserSyncService mirrors provider user records into the local store. The
// provider is the sole source of truth for user ids.
type UserSyncService struct {
	Users *repos.UserRepo
}

func NewUserSyncService(users *repos.UserRepo) *UserSyncService {
	return &UserSyncService{Users: users}
}

// Created inserts the user. A replayed event (unique violation) is reported
// as ErrUserExists so the caller can log and answer success.
func (s *UserSyncService) Created(u IdentityUser) error {
	if u.ID == "" || len(u.EmailAddresses) == 0 {
		return ErrEventInvalid
	}
	email := u.primaryEmail()
	if email == "" {
		return ErrNoPrimaryEmail
	}
	name := ""
	if u.FirstName != "" {
		name = u.fullName()
	}
	if err := s.Users.Create(u.ID, email, name); err != nil {
		if repos.IsUniqueViolation(err) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

// Updated applies a partial patch with only the fields the event carries.
func (s *UserSyncService) Updated(u IdentityUser) error {
	if u.ID == "" {
		return ErrEventInvalid
	}
	var patch domain.UserPatch
	if email := u.primaryEmail(); email != "" {
		patch.Email = &email
	}
	if u.FirstName != "" {
		name := u.fullName()
		patch.Name = &name
	}
	if patch.Empty() {
		return ErrNoChanges
	}
	if err := s.Users.UpdatePartial(u.ID, patch); err != nil {
		if repos.IsNotFound(err) {
			return ErrUserMissing
		}
		return err
	}
	return nil
}

func (s *UserSyncService) Deleted(u IdentityUser) error {
	if u.ID == "" {
		return ErrEventInvalid
	}
	if err := s.Users.Delete(u.ID); err != nil {
		if repos.IsNotFound(err) {
			return ErrUserMissing
		}
		return err
	}
	return nil
}
