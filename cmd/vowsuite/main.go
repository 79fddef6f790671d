package main

import (
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/vowsuite/vowsuite/internal/server"
	"go.uber.org/fx"
)

func main() {
	if strings.EqualFold(os.Getenv("ENVIRONMENT"), "production") {
		gin.SetMode(gin.ReleaseMode)
	}

	app := fx.New(
		fx.Provide(RegisterSnowflake),
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
