package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cashbook-go/internal/domain/space"
)

const (
	minPasswordLength = 8
	personalSpaceName = "My Ledger"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates the user together with their personal space and owner
// membership. The three writes share one storage transaction so a failure on
// any of them leaves no user behind.
func (s *Service) Register(ctx context.Context, email, password, name string) (*User, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		created.Name = &trimmed
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetByEmail(ctx, email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, ErrUserNotFound) {
			return err
		}

		if err := tx.Create(ctx, &created); err != nil {
			return err
		}

		personal := space.Space{
			ID:   uuid.NewString(),
			Name: personalSpaceName,
			Kind: space.KindPersonal,
		}
		if err := tx.CreateSpace(ctx, &personal); err != nil {
			return err
		}

		return tx.AddMember(ctx, &space.Membership{
			SpaceID: personal.ID,
			UserID:  created.ID,
			Role:    space.RoleOwner,
		})
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Authenticate verifies credentials. An unknown email and a wrong password
// both come back as ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(email)

	found, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return found, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
