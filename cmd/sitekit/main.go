package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/sitekit/internal/clock"
	"github.com/smallbiznis/sitekit/internal/migration"
	"github.com/smallbiznis/sitekit/internal/server"
	"github.com/smallbiznis/sitekit/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)

	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
