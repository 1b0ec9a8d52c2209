package rules

import (
	"fmt"
	"sort"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	iso8601 "github.com/senseyeio/duration"
	"github.com/travigo/fareschema/pkg/fares"
	"github.com/travigo/fareschema/pkg/util"
	"golang.org/x/exp/slices"
)

// Scope is the part of the document a rule is evaluated against.
type Scope string

const (
	ScopeDocument Scope = "document"
	ScopeResult   Scope = "result"
	ScopeFlow     Scope = "flow"
	ScopeFare     Scope = "fare"
	ScopePlusBus  Scope = "plusbus"
	ScopeJourney  Scope = "journey"
)

var Scopes = []Scope{ScopeDocument, ScopeResult, ScopeFlow, ScopeFare, ScopePlusBus, ScopeJourney}

// Definition is a rule as written in the configuration file. Expr must evaluate to true for
// the document to pass.
type Definition struct {
	Name    string `yaml:"name"`
	Scope   Scope  `yaml:"scope"`
	Expr    string `yaml:"expr"`
	Message string `yaml:"message"`
}

// Env is what a rule expression can see. Only the fields belonging to the rule's scope and
// its parents are filled in, eg. a fare rule sees document, result, flow and fare.
type Env struct {
	Document fares.FareResponse   `expr:"document"`
	Result   fares.FareResult     `expr:"result"`
	Flow     fares.Flow           `expr:"flow"`
	Fare     fares.FlowFare       `expr:"fare"`
	PlusBus  fares.PlusBusInfo    `expr:"plusbus"`
	Code     string               `expr:"code"`
	Entry    fares.FareTableEntry `expr:"entry"`
	Journey  fares.JourneyTime    `expr:"journey"`
	Minutes  int                  `expr:"minutes"`
}

type rule struct {
	Definition
	program *vm.Program
}

// RuleSet is a compiled set of rules, safe for concurrent use.
type RuleSet struct {
	rules []rule

	maxJourneyDuration    iso8601.Duration
	maxJourneyDurationRaw string
}

var referenceDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Compile checks and compiles every definition. maxJourneyDuration is an optional ISO 8601
// duration such as PT12H.
func Compile(definitions []Definition, maxJourneyDuration string) (*RuleSet, error) {
	ruleSet := &RuleSet{}

	names := map[string]bool{}
	for _, definition := range definitions {
		if definition.Name == "" {
			return nil, fmt.Errorf("rule with expression %q has no name", definition.Expr)
		}
		if names[definition.Name] {
			return nil, fmt.Errorf("rule %s is defined more than once", definition.Name)
		}
		names[definition.Name] = true

		if !slices.Contains(Scopes, definition.Scope) {
			return nil, fmt.Errorf("rule %s has unknown scope %q", definition.Name, definition.Scope)
		}

		program, err := expr.Compile(definition.Expr, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %s: %w", definition.Name, err)
		}

		ruleSet.rules = append(ruleSet.rules, rule{
			Definition: definition,
			program:    program,
		})
	}

	if maxJourneyDuration != "" {
		duration, err := iso8601.ParseISO8601(maxJourneyDuration)
		if err != nil {
			return nil, fmt.Errorf("parse max journey duration %q: %w", maxJourneyDuration, err)
		}

		ruleSet.maxJourneyDuration = duration
		ruleSet.maxJourneyDurationRaw = maxJourneyDuration
	}

	return ruleSet, nil
}

func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}

	return len(s.rules)
}

// Evaluate runs every rule over the document and returns the failures in document order.
// A nil RuleSet evaluates to no violations.
func (s *RuleSet) Evaluate(doc fares.FareResponse) fares.Violations {
	var violations fares.Violations
	if s == nil {
		return violations
	}

	e := &evaluation{ruleSet: s}
	env := Env{Document: doc}

	e.run(ScopeDocument, "", env)

	for i, result := range doc.Fares.Results {
		resultPath := fmt.Sprintf("fares.result[%d]", i)
		env := env
		env.Result = result
		e.run(ScopeResult, resultPath, env)

		if result.PlusBus != nil {
			env.PlusBus = *result.PlusBus

			codes := make([]string, 0, len(result.PlusBus.Fares))
			for code := range result.PlusBus.Fares {
				codes = append(codes, string(code))
			}
			sort.Strings(codes)

			for _, code := range codes {
				env := env
				env.Code = code
				env.Entry = result.PlusBus.Fares[fares.FareCode(code)]
				e.run(ScopePlusBus, resultPath+".plusbus.fares."+code, env)
			}
		}

		for j, flow := range result.Flows {
			flowPath := fmt.Sprintf("%s.flows[%d]", resultPath, j)
			env := env
			env.Flow = flow
			e.run(ScopeFlow, flowPath, env)

			for k, fare := range flow.Fares {
				env := env
				env.Fare = fare
				e.run(ScopeFare, fmt.Sprintf("%s.fares[%d]", flowPath, k), env)
			}
		}
	}

	for i, journey := range doc.Times.Journeys {
		journeyPath := fmt.Sprintf("times.journeys[%d]", i)
		env := env
		env.Journey = journey
		if duration, ok := journey.Duration(); ok {
			env.Minutes = int(duration / time.Minute)
		}
		e.run(ScopeJourney, journeyPath, env)

		e.journeyDuration(journeyPath, journey)
	}

	return e.violations
}

type evaluation struct {
	ruleSet    *RuleSet
	violations fares.Violations
}

func (e *evaluation) run(scope Scope, path string, env Env) {
	for _, rule := range e.ruleSet.rules {
		if rule.Scope != scope {
			continue
		}

		output, err := expr.Run(rule.program, env)
		if err != nil {
			e.add(path, fmt.Sprintf("rule %s could not be evaluated: %v", rule.Name, err))
			continue
		}

		if passed, _ := output.(bool); !passed {
			e.add(path, rule.reason())
		}
	}
}

func (e *evaluation) journeyDuration(path string, journey fares.JourneyTime) {
	if e.ruleSet.maxJourneyDurationRaw == "" {
		return
	}

	// Journeys arriving before they depart are left alone as the day they arrive is unknown
	if _, ok := journey.Duration(); !ok {
		return
	}

	departure := util.AddMinutesToDate(referenceDate, journey.Departure)
	arrival := util.AddMinutesToDate(referenceDate, journey.Arrival)
	latestArrival := e.ruleSet.maxJourneyDuration.Shift(departure)

	if arrival.After(latestArrival) {
		e.add(path, fmt.Sprintf("journey from %s to %s is longer than %s",
			util.FormatMinuteOfDay(journey.Departure),
			util.FormatMinuteOfDay(journey.Arrival),
			e.ruleSet.maxJourneyDurationRaw,
		))
	}
}

func (e *evaluation) add(path string, reason string) {
	e.violations = append(e.violations, fares.SchemaViolation{
		Field:  path,
		Reason: reason,
	})
}

func (r rule) reason() string {
	if r.Message == "" {
		return fmt.Sprintf("failed rule %s", r.Name)
	}

	return fmt.Sprintf("%s (rule %s)", r.Message, r.Name)
}
