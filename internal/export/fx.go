package export

import (
	"github.com/sparklinkhq/sparklink/internal/export/pdf"
	"github.com/sparklinkhq/sparklink/internal/export/service"
	"go.uber.org/fx"
)

var Module = fx.Module("export.service",
	fx.Provide(pdf.New),
	fx.Provide(service.New),
)
