package page

import (
	"github.com/sparklinkhq/sparklink/internal/page/repository"
	"github.com/sparklinkhq/sparklink/internal/page/service"
	"go.uber.org/fx"
)

var Module = fx.Module("page.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
