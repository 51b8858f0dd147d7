package handler

import (
	spacedomain "cashbook-go/internal/domain/space"
	txdomain "cashbook-go/internal/domain/transactions"
	userdomain "cashbook-go/internal/domain/user"
	"cashbook-go/internal/transport/httpserver/middleware"
	"cashbook-go/pkg/logger"
)

type Handlers struct {
	Users        *userdomain.Service
	Spaces       *spacedomain.Service
	Transactions *txdomain.Service
	Sessions     *middleware.SessionAuth
	log          logger.Logger
}

func New(users *userdomain.Service, spaces *spacedomain.Service, transactions *txdomain.Service, sessions *middleware.SessionAuth, log logger.Logger) *Handlers {
	return &Handlers{
		Users:        users,
		Spaces:       spaces,
		Transactions: transactions,
		Sessions:     sessions,
		log:          log,
	}
}
