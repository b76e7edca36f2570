package main

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"

	"github.com/benbeisheim/chessrules-backend/internal/config"
	"github.com/benbeisheim/chessrules-backend/internal/controller"
	"github.com/benbeisheim/chessrules-backend/internal/service"
)

func main() {
	log.SetHandler(text.New(os.Stderr))

	cfg, err := config.FromEnvironment()
	if err != nil {
		log.WithError(err).Fatal("loading configuration")
	}
	log.SetLevel(cfg.Level())

	// Initialize services
	gameManager := service.NewGameManager()
	gameService := service.NewGameService(gameManager)

	app := controller.NewApp(cfg, gameService)

	log.WithField("addr", cfg.ListenAddr).Info("listening")
	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
