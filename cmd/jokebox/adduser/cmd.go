package adduser

import (
	"errors"

	"jokebox/vault"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	dataDir := "./data"
	return &cli.Command{
		Name:      "adduser",
		Usage:     "Register a user from the command line",
		ArgsUsage: "<username> <password>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "data",
				Aliases:     []string{"d"},
				Usage:       "Directory holding the jokebox database",
				Value:       dataDir,
				Destination: &dataDir,
			},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 2 {
				return errors.New("expected exactly two arguments: username and password")
			}
			username, password := ctx.Args().Get(0), ctx.Args().Get(1)
			store, err := vault.Open(ctx.Context, dataDir)
			if err != nil {
				return err
			}
			defer store.Close()
			user, err := store.Register(ctx.Context, username, password)
			if err != nil {
				return err
			}
			log.Info().Str("user.id", user.ID).Str("user.name", user.Username).Msg("User registered")
			return nil
		},
	}
}
