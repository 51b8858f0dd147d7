package space

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const maxSpaceNameLength = 50

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListSpaces(ctx context.Context, userID string) ([]SpaceWithRole, error) {
	return s.repo.ListSpacesByUser(ctx, userID)
}

// GetSpace fetches a space by id. Callers resolve membership first; this
// never runs for non-members.
func (s *Service) GetSpace(ctx context.Context, spaceID string) (*Space, error) {
	return s.repo.GetSpace(ctx, spaceID)
}

// CreateSpace creates a family space with the caller as owner. The space and
// the owner membership are written in one storage transaction.
func (s *Service) CreateSpace(ctx context.Context, userID, name string) (*Space, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if len([]rune(name)) > maxSpaceNameLength {
		return nil, fmt.Errorf("name too long")
	}

	created := Space{
		ID:   uuid.NewString(),
		Name: name,
		Kind: KindFamily,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateSpace(ctx, &created); err != nil {
			return err
		}
		return tx.AddMember(ctx, &Membership{
			SpaceID: created.ID,
			UserID:  userID,
			Role:    RoleOwner,
		})
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// ResolveMember is the membership lookup every space-scoped operation runs
// before anything else. Absence means ErrNotMember regardless of whether the
// space exists.
func (s *Service) ResolveMember(ctx context.Context, spaceID, userID string) (*Membership, error) {
	return s.repo.GetMember(ctx, spaceID, userID)
}

func (s *Service) ListMembers(ctx context.Context, callerID, spaceID string) ([]MemberProfile, error) {
	if _, err := s.repo.GetMember(ctx, spaceID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, spaceID)
}

// AddMember adds an existing user to a space by email. Owner only; the
// granted role is member or viewer, never a second owner.
func (s *Service) AddMember(ctx context.Context, callerID, spaceID, email string, role Role) (*Membership, error) {
	if role != RoleMember && role != RoleViewer {
		return nil, ErrInvalidRole
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	var added Membership
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		caller, err := tx.GetMember(ctx, spaceID, callerID)
		if err != nil {
			return err
		}
		if caller.Role != RoleOwner {
			return ErrNotOwner
		}

		userID, err := tx.FindUserIDByEmail(ctx, email)
		if err != nil {
			return err
		}

		if _, err := tx.GetMember(ctx, spaceID, userID); err == nil {
			return ErrAlreadyMember
		} else if !errors.Is(err, ErrNotMember) {
			return err
		}

		added = Membership{
			SpaceID: spaceID,
			UserID:  userID,
			Role:    role,
		}
		return tx.AddMember(ctx, &added)
	})
	if err != nil {
		return nil, err
	}

	return &added, nil
}

// UpdateMemberRole changes another member's role. Owner only; the owner
// membership itself is immutable so a space always keeps its owner.
func (s *Service) UpdateMemberRole(ctx context.Context, callerID, spaceID, targetID string, role Role) (*Membership, error) {
	if role != RoleMember && role != RoleViewer {
		return nil, ErrInvalidRole
	}

	var updated Membership
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		caller, err := tx.GetMember(ctx, spaceID, callerID)
		if err != nil {
			return err
		}
		if caller.Role != RoleOwner {
			return ErrNotOwner
		}

		target, err := tx.GetMember(ctx, spaceID, targetID)
		if err != nil {
			if errors.Is(err, ErrNotMember) {
				return ErrMemberNotFound
			}
			return err
		}
		if target.Role == RoleOwner {
			return ErrOwnerImmutable
		}

		if err := tx.UpdateMemberRole(ctx, spaceID, targetID, role); err != nil {
			return err
		}

		updated = *target
		updated.Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// RemoveMember removes a member from a space. Owner only; the owner cannot be
// removed.
func (s *Service) RemoveMember(ctx context.Context, callerID, spaceID, targetID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		caller, err := tx.GetMember(ctx, spaceID, callerID)
		if err != nil {
			return err
		}
		if caller.Role != RoleOwner {
			return ErrNotOwner
		}

		target, err := tx.GetMember(ctx, spaceID, targetID)
		if err != nil {
			if errors.Is(err, ErrNotMember) {
				return ErrMemberNotFound
			}
			return err
		}
		if target.Role == RoleOwner {
			return ErrOwnerImmutable
		}

		deleted, err := tx.DeleteMember(ctx, spaceID, targetID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrMemberNotFound
		}
		return nil
	})
}
