package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/steve-ongera/Muranga-University-ERP-System/config"
	"github.com/steve-ongera/Muranga-University-ERP-System/database"
	"github.com/steve-ongera/Muranga-University-ERP-System/routes"
)

func main() {
	cfg := config.Load()

	// Fails fast when the database is not up.
	database.Connect(cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, cfg.JWTSecret)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
