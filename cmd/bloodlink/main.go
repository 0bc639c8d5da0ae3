package main

import (
	"go.uber.org/fx"

	"bloodlink/internal/bootstrap"
	"bloodlink/pkg/routes"
)

func main() {
	bootstrap.LoadEnv()

	app := fx.New(
		routes.Modules,
	)
	app.Run()
}
