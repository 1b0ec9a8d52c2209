package fares

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFixture(t *testing.T) {
	violations := Validate(parseFixture(t))

	assert.Empty(t, violations)
	assert.NoError(t, violations.Err())
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	doc := parseFixture(t)
	doc.Times.Journeys[0].Departure = MinutesPerDay
	doc.Fares.Results[0].Flows[0].Route = "0"
	doc.Fares.Results[0].Flows[1].Fares[0].Child = -1
	doc.Times.OriginCRS = ""

	violations := Validate(doc)

	require.Len(t, violations, 4)
	assert.Equal(t, []string{
		"fares.result[0].flows[0].route",
		"fares.result[0].flows[1].fares[0].c",
		"times.ocrs",
		"times.journeys[0].dep",
	}, violations.Fields())
	assert.ErrorIs(t, violations.Err(), ErrSchemaViolation)
	assert.ErrorIs(t, violations.First(), ErrSchemaViolation)
	assert.Contains(t, violations.Error(), "times.ocrs: must be a three letter CRS code")
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc *FareResponse)
		fields []string
	}{
		{
			name:   "empty server cpu",
			mutate: func(doc *FareResponse) { doc.Tech.ServerCPU = "" },
			fields: []string{"tech.servercpu"},
		},
		{
			name:   "non numeric version",
			mutate: func(doc *FareResponse) { doc.Fares.Tech.Version = "v989" },
			fields: []string{"fares.ftec.version"},
		},
		{
			name:   "blank destination",
			mutate: func(doc *FareResponse) { doc.Fares.Destination = "" },
			fields: []string{"fares.dest"},
		},
		{
			name:   "long railcard",
			mutate: func(doc *FareResponse) { doc.Fares.Results[0].Railcard = "YNGS" },
			fields: []string{"fares.result[0].rlc"},
		},
		{
			name:   "no railcard",
			mutate: func(doc *FareResponse) { doc.Fares.Results[0].Railcard = NoRailcard },
		},
		{
			name:   "lower case flow origin",
			mutate: func(doc *FareResponse) { doc.Fares.Results[0].Flows[1].Origin = "q202" },
			fields: []string{"fares.result[0].flows[1].o"},
		},
		{
			name:   "zero flow id",
			mutate: func(doc *FareResponse) { doc.Fares.Results[0].Flows[0].ID = 0 },
			fields: []string{"fares.result[0].flows[0].id"},
		},
		{
			name: "non derivable fare",
			mutate: func(doc *FareResponse) {
				doc.Fares.Results[0].Flows[0].ID = NDFMarker
				doc.Fares.Results[0].Flows[0].DiscountIndicator = NDFMarker
			},
		},
		{
			name:   "discount indicator below marker",
			mutate: func(doc *FareResponse) { doc.Fares.Results[0].Flows[0].DiscountIndicator = -2 },
			fields: []string{"fares.result[0].flows[0].discind"},
		},
		{
			name:   "empty restriction",
			mutate: func(doc *FareResponse) { doc.Fares.Results[0].Flows[0].Fares[2].RestrictionCode = "" },
		},
		{
			name:   "one character restriction",
			mutate: func(doc *FareResponse) { doc.Fares.Results[0].Flows[0].Fares[2].RestrictionCode = "B" },
			fields: []string{"fares.result[0].flows[0].fares[2].r"},
		},
		{
			name:   "unknown ticket class",
			mutate: func(doc *FareResponse) { doc.Fares.Results[0].Flows[0].Fares[0].TicketClass = 3 },
			fields: []string{"fares.result[0].flows[0].fares[0].cl"},
		},
		{
			name: "negative plusbus fares",
			mutate: func(doc *FareResponse) {
				doc.Fares.Results[0].PlusBus.Fares[FareCodeAnnualOrigin] = FareTableEntry{Adult: -1, Child: -1}
			},
			fields: []string{"fares.result[0].plusbus.fares.sa0.a", "fares.result[0].plusbus.fares.sa0.c"},
		},
		{
			name:   "empty plusbus fares",
			mutate: func(doc *FareResponse) { doc.Fares.Results[0].PlusBus.Fares = PlusBusFares{} },
			fields: []string{"fares.result[0].plusbus.fares"},
		},
		{
			name:   "plusbus zone too short",
			mutate: func(doc *FareResponse) { doc.Fares.Results[0].PlusBus.PlusBusDestination = "J80" },
			fields: []string{"fares.result[0].plusbus.pd"},
		},
		{
			name: "child dearer than adult",
			mutate: func(doc *FareResponse) {
				doc.Fares.Results[0].Flows[0].Fares[0].Child = doc.Fares.Results[0].Flows[0].Fares[0].Adult + 1
			},
		},
		{
			name:   "last minute of the day",
			mutate: func(doc *FareResponse) { doc.Times.Journeys[1].Arrival = MinutesPerDay - 1 },
		},
		{
			name:   "no journeys",
			mutate: func(doc *FareResponse) { doc.Times.Journeys = []JourneyTime{} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseFixture(t)
			tt.mutate(&doc)

			violations := Validate(doc)
			if len(tt.fields) == 0 {
				assert.Empty(t, violations)
				return
			}

			assert.Equal(t, tt.fields, violations.Fields())
		})
	}
}

func TestJourneyDuration(t *testing.T) {
	tests := []struct {
		name     string
		journey  JourneyTime
		expected time.Duration
		ok       bool
	}{
		{name: "morning", journey: JourneyTime{Departure: 600, Arrival: 720}, expected: 2 * time.Hour, ok: true},
		{name: "same minute", journey: JourneyTime{Departure: 639, Arrival: 639}, expected: 0, ok: true},
		{name: "overnight", journey: JourneyTime{Departure: 1400, Arrival: 20}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			duration, ok := tt.journey.Duration()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, duration)
		})
	}
}
