package app

import (
	"net/http"

	"cashbook-go/internal/config"
	"cashbook-go/internal/db"
	spacedomain "cashbook-go/internal/domain/space"
	txdomain "cashbook-go/internal/domain/transactions"
	userdomain "cashbook-go/internal/domain/user"
	spacerepo "cashbook-go/internal/repository/space"
	txrepo "cashbook-go/internal/repository/transactions"
	userrepo "cashbook-go/internal/repository/user"
	"cashbook-go/internal/transport/httpserver"
	"cashbook-go/internal/transport/httpserver/handler"
	"cashbook-go/internal/transport/httpserver/middleware"
	"cashbook-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	userService := userdomain.NewService(userrepo.NewPostgres(dbConn))
	spaceService := spacedomain.NewService(spacerepo.NewPostgres(dbConn))
	txService := txdomain.NewService(txrepo.NewPostgres(dbConn))

	sessions := middleware.NewSessionAuth(cfg.Session, log)
	handlers := handler.New(userService, spaceService, txService, sessions, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, sessions)
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
