package auth

import (
	"github.com/sparklinkhq/sparklink/internal/auth/repository"
	"github.com/sparklinkhq/sparklink/internal/auth/service"
	"github.com/sparklinkhq/sparklink/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(repository.ProvideSessions),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
