package checker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/fareschema/pkg/config"
	"github.com/travigo/fareschema/pkg/fares"
	"github.com/travigo/fareschema/pkg/fares/rules"
)

var (
	strictFixture  = filepath.Join("..", "fares", "testdata", "resp1.json")
	lenientFixture = filepath.Join("..", "fares", "testdata", "resp1.js")
)

func readFixture(t *testing.T, path string) []byte {
	t.Helper()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	return raw
}

func TestCheck(t *testing.T) {
	checker, err := New(config.Default())
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		report := checker.Check(Document{Name: "resp1.json", Raw: readFixture(t, strictFixture)})

		assert.True(t, report.OK())
		assert.Equal(t, "Poole", report.Response.Fares.Origin)
	})

	t.Run("malformed", func(t *testing.T) {
		report := checker.Check(Document{Name: "resp1.js", Raw: readFixture(t, lenientFixture)})

		assert.False(t, report.OK())
		assert.ErrorIs(t, report.Err, fares.ErrMalformedDocument)
		assert.Empty(t, report.Violations)
	})

	t.Run("violations", func(t *testing.T) {
		raw := strings.Replace(string(readFixture(t, strictFixture)), `"dep": 600`, `"dep": 1500`, 1)
		report := checker.Check(Document{Name: "late.json", Raw: []byte(raw)})

		assert.False(t, report.OK())
		assert.NoError(t, report.Err)
		assert.Equal(t, []string{"times.journeys[0].dep"}, report.Violations.Fields())
	})
}

func TestCheckRules(t *testing.T) {
	cfg := config.Default()
	cfg.Grammar = string(fares.GrammarLenient)
	cfg.Rules = []rules.Definition{
		{Name: "cheap", Scope: rules.ScopeFlow, Expr: "flow.Fares[0].Adult < 100"},
	}

	checker, err := New(cfg)
	require.NoError(t, err)

	report := checker.Check(Document{Name: "resp1.js", Raw: readFixture(t, lenientFixture)})
	assert.Equal(t, []string{"fares.result[0].flows[0]", "fares.result[0].flows[1]"}, report.Violations.Fields())

	raw := strings.Replace(string(readFixture(t, lenientFixture)), `"dep": 600`, `"dep": 1500`, 1)
	report = checker.Check(Document{Name: "late.js", Raw: []byte(raw)})
	assert.Equal(t, []string{"times.journeys[0].dep"}, report.Violations.Fields())
}

func TestNewRejectsBadRules(t *testing.T) {
	cfg := config.Default()
	cfg.Rules = []rules.Definition{{Name: "broken", Scope: rules.ScopeFare, Expr: "fare."}}

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestCheckAllKeepsOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Concurrency = 3

	checker, err := New(cfg)
	require.NoError(t, err)

	valid := readFixture(t, strictFixture)
	var documents []Document
	for i := 0; i < 20; i++ {
		raw := valid
		name := "valid"
		if i%4 == 0 {
			raw = []byte("{")
			name = "broken"
		}

		documents = append(documents, Document{Name: name, Raw: raw})
	}

	reports := checker.CheckAll(documents)
	require.Len(t, reports, len(documents))

	for i, report := range reports {
		assert.Equal(t, documents[i].Name, report.Name)
		assert.Equal(t, i%4 != 0, report.OK(), i)
	}
}

func TestReadDocuments(t *testing.T) {
	documents, err := ReadDocuments([]string{strictFixture, StdinName}, strings.NewReader("{}"))
	require.NoError(t, err)
	require.Len(t, documents, 2)

	assert.Equal(t, strictFixture, documents[0].Name)
	assert.Equal(t, "stdin", documents[1].Name)
	assert.Equal(t, []byte("{}"), documents[1].Raw)

	_, err = ReadDocuments(nil, nil)
	assert.Error(t, err)

	_, err = ReadDocuments([]string{StdinName, StdinName}, strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadDocuments([]string{"missing.json"}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
