package space

import (
	"context"
	"errors"
	"time"

	spacedomain "cashbook-go/internal/domain/space"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(spacedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetSpace(ctx context.Context, spaceID string) (*spacedomain.Space, error) {
	var found spacedomain.Space
	if err := r.db.WithContext(ctx).Where("id = ?", spaceID).First(&found).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, spacedomain.ErrSpaceNotFound
		}
		return nil, err
	}
	return &found, nil
}

func (r *PostgresRepository) ListSpacesByUser(ctx context.Context, userID string) ([]spacedomain.SpaceWithRole, error) {
	type row struct {
		ID        string             `gorm:"column:id"`
		Name      string             `gorm:"column:name"`
		Kind      spacedomain.Kind   `gorm:"column:kind"`
		Role      spacedomain.Role   `gorm:"column:role"`
		CreatedAt time.Time          `gorm:"column:created_at"`
		UpdatedAt time.Time          `gorm:"column:updated_at"`
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Table("spaces").
		Select("spaces.id, spaces.name, spaces.kind, spaces.created_at, spaces.updated_at, space_members.role").
		Joins("join space_members on space_members.space_id = spaces.id").
		Where("space_members.user_id = ?", userID).
		Order("spaces.created_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]spacedomain.SpaceWithRole, 0, len(rows))
	for _, item := range rows {
		result = append(result, spacedomain.SpaceWithRole{
			Space: spacedomain.Space{
				ID:        item.ID,
				Name:      item.Name,
				Kind:      item.Kind,
				CreatedAt: item.CreatedAt,
				UpdatedAt: item.UpdatedAt,
			},
			Role: item.Role,
		})
	}
	return result, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, spaceID, userID string) (*spacedomain.Membership, error) {
	var member spacedomain.Membership
	if err := r.db.WithContext(ctx).Where("space_id = ? AND user_id = ?", spaceID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, spacedomain.ErrNotMember
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, spaceID string) ([]spacedomain.MemberProfile, error) {
	type row struct {
		UserID    string           `gorm:"column:user_id"`
		Email     string           `gorm:"column:email"`
		Name      *string          `gorm:"column:name"`
		Role      spacedomain.Role `gorm:"column:role"`
		CreatedAt time.Time        `gorm:"column:created_at"`
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Table("space_members").
		Select("space_members.user_id, space_members.role, space_members.created_at, users.email, users.name").
		Joins("join users on users.id = space_members.user_id").
		Where("space_members.space_id = ?", spaceID).
		Order("space_members.created_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]spacedomain.MemberProfile, 0, len(rows))
	for _, item := range rows {
		members = append(members, spacedomain.MemberProfile{
			UserID:    item.UserID,
			Email:     item.Email,
			Name:      item.Name,
			Role:      item.Role,
			CreatedAt: item.CreatedAt,
		})
	}
	return members, nil
}

func (r *PostgresRepository) CreateSpace(ctx context.Context, s *spacedomain.Space) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *PostgresRepository) AddMember(ctx context.Context, m *spacedomain.Membership) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *PostgresRepository) UpdateMemberRole(ctx context.Context, spaceID, userID string, role spacedomain.Role) error {
	return r.db.WithContext(ctx).
		Model(&spacedomain.Membership{}).
		Where("space_id = ? AND user_id = ?", spaceID, userID).
		Update("role", role).Error
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, spaceID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("space_id = ? AND user_id = ?", spaceID, userID).
		Delete(&spacedomain.Membership{})
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) FindUserIDByEmail(ctx context.Context, email string) (string, error) {
	var id string
	err := r.db.WithContext(ctx).
		Table("users").
		Select("id").
		Where("email = ?", email).
		Limit(1).
		Scan(&id).Error
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", spacedomain.ErrUserNotFound
	}
	return id, nil
}
