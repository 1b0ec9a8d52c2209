package fares

import (
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/travigo/fareschema/pkg/util"
)

// Selection narrows a response down the same way a fares search does. Empty fields match
// anything.
type Selection struct {
	Railcard   string
	Route      string
	TicketCode string
}

func (s Selection) IsEmpty() bool {
	return s.Railcard == "" && s.Route == "" && s.TicketCode == ""
}

// Select returns a deep copy of the response holding only the results, flows and fares
// matching the selection. Flows left without any fare are dropped. The receiver is not
// modified.
func (r FareResponse) Select(selection Selection) (FareResponse, error) {
	var selected FareResponse
	if err := copier.CopyWithOption(&selected, &r, copier.Option{DeepCopy: true}); err != nil {
		return FareResponse{}, fmt.Errorf("copy response: %w", err)
	}

	if selection.IsEmpty() {
		return selected, nil
	}

	railcard := strings.ToUpper(selection.Railcard)
	ticketCode := strings.ToUpper(selection.TicketCode)

	util.InPlaceFilter(&selected.Fares.Results, func(result FareResult) bool {
		return railcard == "" || strings.TrimSpace(result.Railcard) == strings.TrimSpace(railcard)
	})

	for i := range selected.Fares.Results {
		result := &selected.Fares.Results[i]

		util.InPlaceFilter(&result.Flows, func(flow Flow) bool {
			return selection.Route == "" || flow.Route == selection.Route
		})

		for j := range result.Flows {
			util.InPlaceFilter(&result.Flows[j].Fares, func(fare FlowFare) bool {
				return ticketCode == "" || fare.TicketCode == ticketCode
			})
		}

		util.InPlaceFilter(&result.Flows, func(flow Flow) bool {
			return len(flow.Fares) > 0
		})
	}

	return selected, nil
}
