package profile

import (
	"github.com/sparklinkhq/sparklink/internal/profile/repository"
	"github.com/sparklinkhq/sparklink/internal/profile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profile.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
