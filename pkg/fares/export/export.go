package export

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/travigo/fareschema/pkg/fares"
	"github.com/travigo/fareschema/pkg/util"
)

// Table names a CSV rendering of part of a fares response.
type Table string

const (
	TableFlows    Table = "flows"
	TablePlusBus  Table = "plusbus"
	TableJourneys Table = "journeys"
)

func ParseTable(value string) (Table, error) {
	switch table := Table(value); table {
	case TableFlows, TablePlusBus, TableJourneys:
		return table, nil
	}

	return "", fmt.Errorf("unknown table %q, expected %s, %s or %s", value, TableFlows, TablePlusBus, TableJourneys)
}

// Write renders the table as CSV with a header row.
func Write(w io.Writer, table Table, doc fares.FareResponse) error {
	var rows interface{}

	switch table {
	case TableFlows:
		rows = Flows(doc)
	case TablePlusBus:
		rows = PlusBus(doc)
	case TableJourneys:
		rows = Journeys(doc)
	default:
		return fmt.Errorf("unknown table %q", table)
	}

	return gocsv.Marshal(rows, w)
}

func Flows(doc fares.FareResponse) []*FlowRow {
	rows := []*FlowRow{}

	for i, result := range doc.Fares.Results {
		for _, flow := range result.Flows {
			for position, fare := range flow.Fares {
				rows = append(rows, &FlowRow{
					Result:            i,
					Railcard:          result.Railcard,
					Origin:            flow.Origin,
					Destination:       flow.Destination,
					Route:             flow.Route,
					FlowID:            flow.ID,
					DiscountIndicator: flow.DiscountIndicator,
					NDF:               flow.IsNDF(),
					Position:          position,
					TicketCode:        fare.TicketCode,
					RestrictionCode:   fare.RestrictionCode,
					Adult:             fare.Adult,
					Child:             fare.Child,
					TicketClass:       fare.TicketClass,
					TicketType:        fare.TicketType,
				})
			}
		}
	}

	return rows
}

// PlusBus lists plusbus fares in fare code display order. Codes outside the known set are
// written last in alphabetical order.
func PlusBus(doc fares.FareResponse) []*PlusBusRow {
	rows := []*PlusBusRow{}

	for i, result := range doc.Fares.Results {
		if result.PlusBus == nil {
			continue
		}
		info := result.PlusBus

		for _, code := range orderedCodes(info.Fares) {
			entry := info.Fares[code]

			zone := ""
			switch code.End() {
			case fares.EndOrigin:
				zone = info.PlusBusOrigin
			case fares.EndDestination:
				zone = info.PlusBusDestination
			}

			rows = append(rows, &PlusBusRow{
				Result:      i,
				Railcard:    result.Railcard,
				Origin:      info.Origin,
				Destination: info.Destination,
				Code:        string(code),
				End:         string(code.End()),
				Zone:        zone,
				Season:      code.IsSeason(),
				Adult:       entry.Adult,
				Child:       entry.Child,
			})
		}
	}

	return rows
}

func Journeys(doc fares.FareResponse) []*JourneyRow {
	rows := []*JourneyRow{}

	for i, journey := range doc.Times.Journeys {
		minutes := ""
		if duration, ok := journey.Duration(); ok {
			minutes = strconv.Itoa(int(duration / time.Minute))
		}

		rows = append(rows, &JourneyRow{
			Journey:          i,
			Origin:           doc.Times.OriginCRS,
			Destination:      doc.Times.DestinationCRS,
			DepartureMinutes: journey.Departure,
			ArrivalMinutes:   journey.Arrival,
			Departure:        util.FormatMinuteOfDay(journey.Departure),
			Arrival:          util.FormatMinuteOfDay(journey.Arrival),
			Minutes:          minutes,
		})
	}

	return rows
}

func orderedCodes(table fares.PlusBusFares) []fares.FareCode {
	var codes []fares.FareCode
	for _, code := range fares.FareCodes {
		if _, exists := table[code]; exists {
			codes = append(codes, code)
		}
	}

	var unknown []string
	for code := range table {
		if !code.Valid() {
			unknown = append(unknown, string(code))
		}
	}
	sort.Strings(unknown)

	for _, code := range unknown {
		codes = append(codes, fares.FareCode(code))
	}

	return codes
}
