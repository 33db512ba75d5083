package gallery

import (
	"github.com/sparklinkhq/sparklink/internal/gallery/repository"
	"github.com/sparklinkhq/sparklink/internal/gallery/service"
	"go.uber.org/fx"
)

var Module = fx.Module("gallery.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
