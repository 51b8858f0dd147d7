package space

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleOwner, RoleMember, RoleViewer:
		return Role(value), nil
	}
	return "", fmt.Errorf("unknown role %q", value)
}

type Kind string

const (
	KindPersonal Kind = "personal"
	KindFamily   Kind = "family"
)

type Space struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Kind      Kind      `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type Membership struct {
	SpaceID   string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;primaryKey"`
	Role      Role      `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Membership) TableName() string {
	return "space_members"
}

type SpaceWithRole struct {
	Space
	Role Role
}

type MemberProfile struct {
	UserID    string
	Email     string
	Name      *string
	Role      Role
	CreatedAt time.Time
}
