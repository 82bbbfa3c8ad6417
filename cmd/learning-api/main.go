package main

import (
	"os"

	"github.com/amref/learning-api/internal/cli"
)

// @title          Amref API
// @version        1.0
// @description    Learning platform backend: accounts, authentication and access control.
// @BasePath       /api/v1
// @securityDefinitions.apikey BearerAuth
// @in             header
// @name           Authorization
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
