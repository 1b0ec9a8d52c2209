package fares

import "time"

// FareResponse is the root of a fares & journeys lookup document.
type FareResponse struct {
	Tech  TechInfo   `json:"tech" groups:"detailed"`
	Fares FaresBlock `json:"fares" groups:"basic,detailed"`
	Times TimesBlock `json:"times" groups:"basic,detailed"`
}

type TechInfo struct {
	ServerUTC  string `json:"serverutc" groups:"detailed"`
	ServerCPU  string `json:"servercpu" groups:"detailed"`
	ComputerID string `json:"computerid" groups:"detailed"`
}

type FaresBlock struct {
	Tech        FaresTech    `json:"ftec" groups:"detailed"`
	Origin      string       `json:"orig" groups:"basic,detailed"`
	Destination string       `json:"dest" groups:"basic,detailed"`
	Results     []FareResult `json:"result" groups:"basic,detailed"`
}

// FaresTech identifies the fares feed the response was built from.
type FaresTech struct {
	Version    string `json:"version" groups:"detailed"`
	NDFVersion string `json:"ndfversion" groups:"detailed"`
}

// FareResult groups every flow found for a single railcard.
type FareResult struct {
	Railcard string       `json:"rlc" groups:"basic,detailed"`
	PlusBus  *PlusBusInfo `json:"plusbus,omitempty" groups:"basic,detailed"`
	Flows    []Flow       `json:"flows" groups:"basic,detailed"`
}

// PlusBusInfo is only present when plusbus is permitted at either end of the journey.
type PlusBusInfo struct {
	Origin             string       `json:"o" groups:"basic,detailed"`
	Destination        string       `json:"d" groups:"basic,detailed"`
	PlusBusOrigin      string       `json:"po" groups:"basic,detailed"`
	PlusBusDestination string       `json:"pd" groups:"basic,detailed"`
	Fares              PlusBusFares `json:"fares" groups:"basic,detailed"`
}

type PlusBusFares map[FareCode]FareTableEntry

// FareTableEntry holds adult and child prices in pence.
type FareTableEntry struct {
	Adult int `json:"a" groups:"basic,detailed"`
	Child int `json:"c" groups:"basic,detailed"`
}

// Flow is a priced origin/destination record. Fares are kept in the order they were
// received as that order is the display priority.
type Flow struct {
	Origin            string     `json:"o" groups:"basic,detailed"`
	Destination       string     `json:"d" groups:"basic,detailed"`
	Route             string     `json:"route" groups:"basic,detailed"`
	ID                int        `json:"id" groups:"basic,detailed"`
	DiscountIndicator int        `json:"discind" groups:"basic,detailed"`
	Fares             []FlowFare `json:"fares" groups:"basic,detailed"`
}

// IsNDF reports whether the flow came from a non-derivable fare rather than a flow record.
func (f Flow) IsNDF() bool {
	return f.ID == NDFMarker
}

type FlowFare struct {
	Adult           int    `json:"a" groups:"basic,detailed"`
	Child           int    `json:"c" groups:"basic,detailed"`
	TicketCode      string `json:"t" groups:"basic,detailed"`
	RestrictionCode string `json:"r" groups:"basic,detailed"`

	TicketClass int    `json:"cl,omitempty" groups:"detailed"`
	TicketType  string `json:"tt,omitempty" groups:"detailed"`
}

type TimesBlock struct {
	OriginCRS      string        `json:"ocrs" groups:"basic,detailed"`
	DestinationCRS string        `json:"dcrs" groups:"basic,detailed"`
	Journeys       []JourneyTime `json:"journeys" groups:"basic,detailed"`
}

// JourneyTime holds departure and arrival as minutes since midnight.
type JourneyTime struct {
	Departure int `json:"dep" groups:"basic,detailed"`
	Arrival   int `json:"arr" groups:"basic,detailed"`
}

// Duration returns the time between departure and arrival. ok is false when the arrival is
// earlier than the departure as the document does not say whether that means the next day.
func (j JourneyTime) Duration() (d time.Duration, ok bool) {
	if j.Arrival < j.Departure {
		return 0, false
	}

	return time.Duration(j.Arrival-j.Departure) * time.Minute, true
}

const (
	MinutesPerDay = 24 * 60

	// NDFMarker is used as both the flow id and discount indicator of fares found in the
	// non-derivable fares files.
	NDFMarker = -1

	// NoPlusBusZone marks an end of the journey without a plusbus zone.
	NoPlusBusZone = "0000"

	// NoRailcard is the railcard code used when fares were requested without a railcard.
	NoRailcard = "   "
)
