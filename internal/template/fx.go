package template

import (
	"github.com/sparklinkhq/sparklink/internal/template/repository"
	"github.com/sparklinkhq/sparklink/internal/template/service"
	"go.uber.org/fx"
)

var Module = fx.Module("template.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
