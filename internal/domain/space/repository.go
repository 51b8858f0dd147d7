package space

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetSpace(ctx context.Context, spaceID string) (*Space, error)
	ListSpacesByUser(ctx context.Context, userID string) ([]SpaceWithRole, error)
	GetMember(ctx context.Context, spaceID, userID string) (*Membership, error)
	ListMembers(ctx context.Context, spaceID string) ([]MemberProfile, error)
	CreateSpace(ctx context.Context, s *Space) error
	AddMember(ctx context.Context, m *Membership) error
	UpdateMemberRole(ctx context.Context, spaceID, userID string, role Role) error
	DeleteMember(ctx context.Context, spaceID, userID string) (bool, error)
	FindUserIDByEmail(ctx context.Context, email string) (string, error)
}
