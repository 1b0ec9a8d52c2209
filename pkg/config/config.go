package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog/log"
	"github.com/travigo/fareschema/pkg/fares"
	"github.com/travigo/fareschema/pkg/fares/rules"
	"github.com/travigo/fareschema/pkg/util"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "fareschema.yaml"

	EnvironmentPrefix   = "FARESCHEMA_"
	EnvironmentVariable = EnvironmentPrefix + "CONFIG"
)

type Config struct {
	Grammar            string             `yaml:"grammar"`
	Concurrency        int                `yaml:"concurrency"`
	Groups             []string           `yaml:"groups"`
	MaxJourneyDuration string             `yaml:"maxJourneyDuration"`
	Rules              []rules.Definition `yaml:"rules"`
}

func Default() Config {
	config := Config{}
	config.applyDefaults()

	return config
}

// Load reads the configuration file at path. Without a path it falls back to the file named by
// FARESCHEMA_CONFIG and then to fareschema.yaml in the working directory, using the defaults
// when neither exists.
func Load(path string) (Config, error) {
	explicit := path != ""

	if !explicit {
		env := util.GetEnvironmentVariables(EnvironmentPrefix)
		if envPath := env[EnvironmentVariable]; envPath != "" {
			path = envPath
			explicit = true
		} else {
			path = DefaultPath
		}
	}

	configYaml, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			log.Debug().Msg("No config file found, using defaults")
			return Default(), nil
		}

		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("Loading config file")

	config, err := Parse(configYaml)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return config, nil
}

// Parse decodes and checks a YAML configuration. Unknown keys are rejected.
func Parse(configYaml []byte) (Config, error) {
	var config Config

	decoder := yaml.NewDecoder(bytes.NewReader(configYaml))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Grammar == "" {
		c.Grammar = string(fares.GrammarStrict)
	}
	if c.Concurrency == 0 {
		c.Concurrency = runtime.NumCPU()
	}
	if len(c.Groups) == 0 {
		c.Groups = []string{fares.GroupBasic, fares.GroupDetailed}
	}
}

func (c Config) Validate() error {
	if _, err := fares.ParseGrammar(c.Grammar); err != nil {
		return err
	}

	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, found %d", c.Concurrency)
	}

	for _, group := range c.Groups {
		if !slices.Contains([]string{fares.GroupBasic, fares.GroupDetailed}, group) {
			return fmt.Errorf("unknown field group %q", group)
		}
	}

	return nil
}

func (c Config) GrammarOption() fares.Option {
	grammar, err := fares.ParseGrammar(c.Grammar)
	if err != nil {
		grammar = fares.GrammarStrict
	}

	return fares.WithGrammar(grammar)
}

func (c Config) RuleSet() (*rules.RuleSet, error) {
	return rules.Compile(c.Rules, c.MaxJourneyDuration)
}
