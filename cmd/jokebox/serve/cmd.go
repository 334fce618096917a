package serve

import (
	"time"

	"jokebox/internal/httpserver"
	"jokebox/internal/logutil"
	"jokebox/session"
	"jokebox/vault"
	"jokebox/web"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	bindAddr := "localhost:7070"
	dataDir := "./data"
	secretEnvVar := session.SecretEnvVar
	sessionMaxAge := time.Hour * 24 * 30
	secureCookies := false
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the jokebox web site",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "bind",
				Usage:       "Address to bind and serve the site",
				Value:       bindAddr,
				Destination: &bindAddr,
			},
			&cli.StringFlag{
				Name:        "data",
				Aliases:     []string{"d"},
				Usage:       "Directory holding the jokebox database",
				Value:       dataDir,
				Destination: &dataDir,
			},
			&cli.StringFlag{
				Name:        "secret-envvar-name",
				Usage:       "Name of the environment variable that holds the session signing secret. The secret itself should not be passed as an argument",
				Value:       secretEnvVar,
				Destination: &secretEnvVar,
			},
			&cli.DurationFlag{
				Name:        "session-max-age",
				Usage:       "How long a login remains valid",
				Value:       sessionMaxAge,
				Destination: &sessionMaxAge,
			},
			&cli.BoolFlag{
				Name:        "secure-cookies",
				Usage:       "Mark the session cookie as Secure (enable whenever the site is served over TLS)",
				Value:       secureCookies,
				Destination: &secureCookies,
			},
		},
		Action: func(ctx *cli.Context) error {
			secret, err := session.SecretFromEnv(secretEnvVar, nil, nil)
			if err != nil {
				return err
			}
			store, err := vault.Open(ctx.Context, dataDir)
			if err != nil {
				return err
			}
			defer store.Close()
			guard := session.NewGuard(session.NewCodec(secret, sessionMaxAge), secureCookies)
			handler, err := web.AsHandler(ctx.Context, store, guard)
			if err != nil {
				return err
			}
			serveCtx := logutil.WithLogger(ctx.Context, log.Logger)
			return httpserver.Serve(serveCtx, bindAddr, logutil.InjectRequest(log.Logger, handler))
		},
	}
}
