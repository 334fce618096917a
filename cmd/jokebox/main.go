package main

import (
	"context"
	"os"
	"os/signal"

	"jokebox/cmd/jokebox/adduser"
	"jokebox/cmd/jokebox/serve"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	// missing .env is fine, the environment itself may be populated
	godotenv.Load()
	app := &cli.App{
		Name:  "jokebox",
		Usage: "Share terrible jokes with everyone!",
		Commands: []*cli.Command{
			serve.Cmd(),
			adduser.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
	}
}
