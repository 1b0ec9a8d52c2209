package checker

import (
	"errors"
	"fmt"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/fareschema/pkg/config"
	"github.com/travigo/fareschema/pkg/fares"
	"github.com/travigo/fareschema/pkg/fares/export"
	"github.com/travigo/fareschema/pkg/util"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Validate, normalise and export rail fares responses",
		Subcommands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Check fares responses against the schema and configured rules",
				ArgsUsage: "FILE...",
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of documents checked at once",
					},
				),
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					if c.IsSet("concurrency") {
						cfg.Concurrency = c.Int("concurrency")
					}

					checker, err := New(cfg)
					if err != nil {
						return err
					}

					documents, err := ReadDocuments(c.Args().Slice(), c.App.Reader)
					if err != nil {
						return err
					}

					reports := checker.CheckAll(documents)

					failed := 0
					for _, report := range reports {
						if report.OK() {
							fmt.Fprintf(c.App.Writer, "%s: ok\n", report.Name)
							continue
						}
						failed++

						if report.Err != nil {
							fmt.Fprintf(c.App.Writer, "%s: %v\n", report.Name, report.Err)
						}
						for _, violation := range report.Violations {
							fmt.Fprintf(c.App.Writer, "%s: %s\n", report.Name, violation.Error())
						}
					}

					log.Info().
						Int("documents", len(reports)).
						Int("failed", failed).
						Msg("Validation complete")

					if failed > 0 {
						return cli.Exit(fmt.Sprintf("%d of %d documents failed validation", failed, len(reports)), 1)
					}

					return nil
				},
			},
			{
				Name:      "normalize",
				Usage:     "Write a fares response in its canonical strict form",
				ArgsUsage: "FILE",
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "railcard",
						Usage: "Only keep results for this railcard",
					},
					&cli.StringFlag{
						Name:  "route",
						Usage: "Only keep flows with this route code",
					},
					&cli.StringFlag{
						Name:  "ticket",
						Usage: "Only keep fares with this ticket code",
					},
					&cli.BoolFlag{
						Name:  "indent",
						Usage: "Indent the output",
					},
				),
				Action: func(c *cli.Context) error {
					doc, err := parseSingle(c)
					if err != nil {
						return err
					}

					selection := fares.Selection{
						Railcard:   c.String("railcard"),
						Route:      c.String("route"),
						TicketCode: c.String("ticket"),
					}
					if !selection.IsEmpty() {
						doc, err = doc.Select(selection)
						if err != nil {
							return err
						}
					}

					var output []byte
					if c.Bool("indent") {
						output, err = fares.SerializeIndent(doc, "  ")
					} else {
						output, err = fares.Serialize(doc)
					}
					if err != nil {
						return err
					}

					_, err = fmt.Fprintln(c.App.Writer, string(output))
					return err
				},
			},
			{
				Name:      "inspect",
				Usage:     "Pretty print the fields of a fares response",
				ArgsUsage: "FILE",
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "groups",
						Usage: "Comma separated field groups to show (basic, detailed)",
					},
				),
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}

					doc, err := parseSingle(c)
					if err != nil {
						return err
					}

					groups := cfg.Groups
					if c.IsSet("groups") {
						groups = util.SplitList(c.String("groups"))
					}

					projected, err := fares.Project(doc, groups...)
					if err != nil {
						return err
					}

					_, err = pretty.Fprintf(c.App.Writer, "%# v\n", projected)
					return err
				},
			},
			{
				Name:      "export",
				Usage:     "Write part of a fares response as CSV",
				ArgsUsage: "FILE",
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "table",
						Usage:    "Table to export (flows, plusbus, journeys)",
						Required: true,
					},
				),
				Action: func(c *cli.Context) error {
					table, err := export.ParseTable(c.String("table"))
					if err != nil {
						return err
					}

					doc, err := parseSingle(c)
					if err != nil {
						return err
					}

					return export.Write(c.App.Writer, table, doc)
				},
			},
		},
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to the config file",
		},
		&cli.BoolFlag{
			Name:  "lenient",
			Usage: "Accept comments, unquoted keys and trailing commas",
		},
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}

	if c.Bool("lenient") {
		cfg.Grammar = string(fares.GrammarLenient)
	}

	return cfg, nil
}

// parseSingle reads and parses the one document named on the command line.
func parseSingle(c *cli.Context) (fares.FareResponse, error) {
	if c.Args().Len() != 1 {
		return fares.FareResponse{}, errors.New("expected exactly one document")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return fares.FareResponse{}, err
	}

	documents, err := ReadDocuments(c.Args().Slice(), c.App.Reader)
	if err != nil {
		return fares.FareResponse{}, err
	}

	doc, err := fares.Parse(documents[0].Raw, cfg.GrammarOption())
	if err != nil {
		return fares.FareResponse{}, fmt.Errorf("%s: %w", documents[0].Name, err)
	}

	return doc, nil
}
