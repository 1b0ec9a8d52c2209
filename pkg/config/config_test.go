package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/fareschema/pkg/fares"
	"github.com/travigo/fareschema/pkg/fares/rules"
)

func TestLoadFile(t *testing.T) {
	config, err := Load(filepath.Join("testdata", "fareschema.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "lenient", config.Grammar)
	assert.Equal(t, 2, config.Concurrency)
	assert.Equal(t, []string{fares.GroupBasic}, config.Groups)
	assert.Equal(t, "PT6H", config.MaxJourneyDuration)
	require.Len(t, config.Rules, 2)
	assert.Equal(t, rules.Definition{
		Name:    "child-not-dearer",
		Scope:   rules.ScopeFare,
		Expr:    "fare.Child <= fare.Adult",
		Message: "child fare is dearer than the adult fare",
	}, config.Rules[0])

	ruleSet, err := config.RuleSet()
	require.NoError(t, err)
	assert.Equal(t, 2, ruleSet.Len())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(EnvironmentVariable, filepath.Join("testdata", "fareschema.yaml"))

	config, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "lenient", config.Grammar)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")
	t.Chdir(t.TempDir())

	config, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), config)

	_, err = Load("missing.yaml")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	config := Default()

	assert.Equal(t, string(fares.GrammarStrict), config.Grammar)
	assert.Equal(t, runtime.NumCPU(), config.Concurrency)
	assert.Equal(t, []string{fares.GroupBasic, fares.GroupDetailed}, config.Groups)
	assert.NoError(t, config.Validate())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{name: "empty", yaml: ""},
		{name: "grammar only", yaml: "grammar: strict\n"},
		{name: "unknown key", yaml: "grammer: strict\n", wantErr: true},
		{name: "unknown grammar", yaml: "grammar: yaml\n", wantErr: true},
		{name: "negative concurrency", yaml: "concurrency: -1\n", wantErr: true},
		{name: "unknown group", yaml: "groups: [everything]\n", wantErr: true},
		{name: "not yaml", yaml: "grammar: [\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRuleSetErrors(t *testing.T) {
	config, err := Parse([]byte("maxJourneyDuration: six hours\n"))
	require.NoError(t, err)

	_, err = config.RuleSet()
	assert.Error(t, err)
}

func TestGrammarOption(t *testing.T) {
	config := Default()
	config.Grammar = string(fares.GrammarLenient)

	_, err := fares.Parse([]byte("r = {tech: {},};"), config.GrammarOption())
	assert.ErrorIs(t, err, fares.ErrSchemaViolation)

	_, err = fares.Parse([]byte("r = {tech: {},};"), Default().GrammarOption())
	assert.ErrorIs(t, err, fares.ErrMalformedDocument)
}
