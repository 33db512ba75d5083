package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/sparklinkhq/sparklink/internal/logger"
	"github.com/sparklinkhq/sparklink/internal/migration"
	"github.com/sparklinkhq/sparklink/internal/server"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		logger.Module,
		fx.Provide(newSnowflakeNode),
		server.Module,
		migration.Module,
	)
	app.Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
