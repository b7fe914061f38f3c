package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/you/identitysvc/domain"
)

// UniquenessChecker rejects sign-ups whose identifiers are already taken
type UniquenessChecker struct {
	userRepo domain.UserRepository
}

// NewUniquenessChecker creates a new uniqueness checker
func NewUniquenessChecker(userRepo domain.UserRepository) *UniquenessChecker {
	return &UniquenessChecker{userRepo: userRepo}
}

// CheckExists runs the email, username, phone and whatsapp checks in that
// order and returns the first conflict found.
func (c *UniquenessChecker) CheckExists(ctx context.Context, identity domain.CanonicalIdentity) error {
	if err := c.check(ctx, "email", domain.ErrEmailExists, func() (*domain.User, error) {
		return c.userRepo.FindByEmail(ctx, identity.Email)
	}); err != nil {
		return err
	}

	if err := c.check(ctx, "username", domain.ErrUsernameExists, func() (*domain.User, error) {
		return c.userRepo.FindByUsername(ctx, identity.Username)
	}); err != nil {
		return err
	}

	if identity.Phone != nil && identity.Phone.Present() {
		if err := c.check(ctx, "phone", domain.ErrPhoneExists, func() (*domain.User, error) {
			return c.userRepo.FindByPhone(ctx, *identity.Phone)
		}); err != nil {
			return err
		}
	}

	if identity.Whatsapp != nil && identity.Whatsapp.Present() {
		if err := c.check(ctx, "whatsapp", domain.ErrWhatsappExists, func() (*domain.User, error) {
			return c.userRepo.FindByWhatsapp(ctx, *identity.Whatsapp)
		}); err != nil {
			return err
		}

		if err := c.check(ctx, "whatsapp as phone", domain.ErrWhatsappExistsAsPhone, func() (*domain.User, error) {
			return c.userRepo.FindByPhone(ctx, *identity.Whatsapp)
		}); err != nil {
			return err
		}
	}

	return nil
}

func (c *UniquenessChecker) check(ctx context.Context, field string, conflict error, find func() (*domain.User, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	user, err := find()
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check %s: %w", field, err)
	case user != nil:
		return conflict
	}
	return nil
}
