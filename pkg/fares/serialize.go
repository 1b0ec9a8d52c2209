package fares

import (
	"github.com/goccy/go-json"
	"github.com/liip/sheriff"
)

// Field groups understood by Project
const (
	GroupBasic    = "basic"
	GroupDetailed = "detailed"
)

// Serialize writes the canonical strict form of the document. Every fare amount is written as
// an integer number of pence, whether it was received as a number or a numeric string, while
// the tech fields and route codes stay strings. Parse(Serialize(doc)) gives back doc.
func Serialize(doc FareResponse) ([]byte, error) {
	return json.Marshal(canonical(doc))
}

// SerializeIndent is Serialize with indentation for humans.
func SerializeIndent(doc FareResponse, indent string) ([]byte, error) {
	return json.MarshalIndent(canonical(doc), "", indent)
}

// Project reduces the document to the fields tagged with the given groups. The basic group
// holds the fields of the published sample response, detailed adds the tech block and the
// ticket class & type of each fare.
func Project(doc FareResponse, groups ...string) (any, error) {
	if len(groups) == 0 {
		groups = []string{GroupBasic, GroupDetailed}
	}

	return sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, canonical(doc))
}

// canonical swaps nil slices and maps for empty ones so they are written as [] and {} rather
// than null. It returns a copy and leaves doc untouched.
func canonical(doc FareResponse) FareResponse {
	results := make([]FareResult, 0, len(doc.Fares.Results))
	for _, result := range doc.Fares.Results {
		flows := make([]Flow, 0, len(result.Flows))
		for _, flow := range result.Flows {
			if flow.Fares == nil {
				flow.Fares = []FlowFare{}
			}
			flows = append(flows, flow)
		}
		result.Flows = flows

		if result.PlusBus != nil && result.PlusBus.Fares == nil {
			plusBus := *result.PlusBus
			plusBus.Fares = PlusBusFares{}
			result.PlusBus = &plusBus
		}

		results = append(results, result)
	}
	doc.Fares.Results = results

	if doc.Times.Journeys == nil {
		doc.Times.Journeys = []JourneyTime{}
	}

	return doc
}

// Marshal projects the plusbus fares table for sheriff, which only understands plain string
// map keys.
func (f PlusBusFares) Marshal(options *sheriff.Options) (interface{}, error) {
	projected := make(map[string]interface{}, len(f))
	for code, entry := range f {
		value, err := sheriff.Marshal(options, entry)
		if err != nil {
			return nil, err
		}

		projected[string(code)] = value
	}

	return projected, nil
}
