package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/popuphq/passes-api/cmd/app"
)

// @contact.name   PopupHQ Platform
// @contact.email  platform@popuphq.dev
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT from /auth/login, sent as "Bearer <token>"
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
