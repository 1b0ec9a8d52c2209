package checker

import (
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/fareschema/pkg/config"
	"github.com/travigo/fareschema/pkg/fares"
	"github.com/travigo/fareschema/pkg/fares/rules"
)

type Document struct {
	Name string
	Raw  []byte
}

// Report is the outcome of checking one document. Err is set when the document could not be
// read as a document at all, Violations holds every schema and rule problem otherwise.
type Report struct {
	Name       string
	Response   fares.FareResponse
	Violations fares.Violations
	Err        error
}

func (r Report) OK() bool {
	return r.Err == nil && len(r.Violations) == 0
}

type Checker struct {
	options     []fares.Option
	ruleSet     *rules.RuleSet
	concurrency int
}

func New(cfg config.Config) (*Checker, error) {
	ruleSet, err := cfg.RuleSet()
	if err != nil {
		return nil, err
	}

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Checker{
		options:     []fares.Option{cfg.GrammarOption()},
		ruleSet:     ruleSet,
		concurrency: concurrency,
	}, nil
}

// Check parses and validates a single document. Rules only run against documents which meet
// the schema.
func (c *Checker) Check(document Document) Report {
	report := Report{Name: document.Name}

	response, violations, err := fares.Diagnose(document.Raw, c.options...)
	if err != nil {
		log.Debug().Str("document", document.Name).Err(err).Msg("Malformed document")

		report.Err = err
		return report
	}

	if len(violations) == 0 {
		violations = c.ruleSet.Evaluate(response)
	}

	report.Response = response
	report.Violations = violations

	log.Debug().
		Str("document", document.Name).
		Int("violations", len(violations)).
		Msg("Checked document")

	return report
}

// CheckAll checks documents concurrently and returns the reports in the same order as the
// documents.
func (c *Checker) CheckAll(documents []Document) []Report {
	type indexedReport struct {
		index  int
		report Report
	}

	checkPool := pool.NewWithResults[indexedReport]().WithMaxGoroutines(c.concurrency)

	for i, document := range documents {
		checkPool.Go(func() indexedReport {
			return indexedReport{
				index:  i,
				report: c.Check(document),
			}
		})
	}

	results := checkPool.Wait()
	sort.Slice(results, func(i, j int) bool {
		return results[i].index < results[j].index
	})

	reports := make([]Report, 0, len(results))
	for _, result := range results {
		reports = append(reports, result.report)
	}

	return reports
}
