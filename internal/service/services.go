package service

import (
	"github.com/MKhiriev/go-auth-keeper/internal/cache"
	"github.com/MKhiriev/go-auth-keeper/internal/config"
	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/store"
)

type Services struct {
	AuthService AuthService
	UserService UserService
	TokenIssuer TokenIssuer
}

func NewServices(storages *store.Storages, invalidationCache cache.SessionInvalidationCache, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	tokenIssuer := NewTokenIssuer(cfg.App, logger)

	return &Services{
		AuthService: NewAuthService(storages, invalidationCache, tokenIssuer, cfg.App, logger),
		UserService: NewUserService(storages, invalidationCache, cfg.App, logger),
		TokenIssuer: tokenIssuer,
	}
}
