package config

import "go.uber.org/fx"

// Module wires application configuration.
var Module = fx.Options(
	fx.Provide(Load),
	fx.Provide(NewThemeConfigHolder),
)
