package user

import (
	"context"

	"cashbook-go/internal/domain/space"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	CreateSpace(ctx context.Context, s *space.Space) error
	AddMember(ctx context.Context, m *space.Membership) error
}
