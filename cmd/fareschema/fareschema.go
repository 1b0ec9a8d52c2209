package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/fareschema/pkg/checker"
	"github.com/travigo/fareschema/pkg/util"
	"github.com/urfave/cli/v2"
)

func main() {
	env := util.GetEnvironmentVariables("FARESCHEMA_")

	if env["FARESCHEMA_LOG_FORMAT"] != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	if util.EnvironmentFlag(env, "FARESCHEMA_DEBUG") {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "fareschema",
		Description: "Validate, normalise and inspect rail fares & journeys responses",

		Commands: []*cli.Command{
			checker.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
