package space

import "errors"

var (
	ErrSpaceNotFound  = errors.New("space not found")
	ErrNotMember      = errors.New("not a member of space")
	ErrNotOwner       = errors.New("not owner")
	ErrMemberNotFound = errors.New("member not found")
	ErrAlreadyMember  = errors.New("already a member")
	ErrUserNotFound   = errors.New("user not found")
	ErrOwnerImmutable = errors.New("owner membership cannot be changed")
	ErrInvalidRole    = errors.New("invalid role")
)
