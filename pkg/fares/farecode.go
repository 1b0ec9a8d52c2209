package fares

import (
	"strings"

	"golang.org/x/exp/slices"
)

// FareCode is a key of the plusbus fares table.
type FareCode string

const (
	FareCodeDayOriginOutward      FareCode = "b0"
	FareCodeDayDestinationOutward FareCode = "b1"
	FareCodeDayDestinationReturn  FareCode = "b2"
	FareCodeDayOriginReturn       FareCode = "b3"

	FareCodeWeeklyOrigin         FareCode = "sw0"
	FareCodeWeeklyDestination    FareCode = "sw1"
	FareCodeMonthlyOrigin        FareCode = "sm0"
	FareCodeMonthlyDestination   FareCode = "sm1"
	FareCodeQuarterlyOrigin      FareCode = "sq0"
	FareCodeQuarterlyDestination FareCode = "sq1"
	FareCodeAnnualOrigin         FareCode = "sa0"
	FareCodeAnnualDestination    FareCode = "sa1"
)

// FareCodes is the closed set of plusbus fare codes in display order.
var FareCodes = []FareCode{
	FareCodeDayOriginOutward,
	FareCodeDayDestinationOutward,
	FareCodeDayDestinationReturn,
	FareCodeDayOriginReturn,
	FareCodeWeeklyOrigin,
	FareCodeWeeklyDestination,
	FareCodeMonthlyOrigin,
	FareCodeMonthlyDestination,
	FareCodeQuarterlyOrigin,
	FareCodeQuarterlyDestination,
	FareCodeAnnualOrigin,
	FareCodeAnnualDestination,
}

// End is the end of the rail journey a plusbus ticket is valid at.
type End string

const (
	EndOrigin      End = "origin"
	EndDestination End = "destination"
)

// Leg distinguishes outward from return day tickets.
type Leg string

const (
	LegOutward Leg = "outward"
	LegReturn  Leg = "return"
)

func (c FareCode) Valid() bool {
	return slices.Contains(FareCodes, c)
}

func (c FareCode) IsSeason() bool {
	return c.Valid() && strings.HasPrefix(string(c), "s")
}

func (c FareCode) End() End {
	switch c {
	case FareCodeDayOriginOutward, FareCodeDayOriginReturn,
		FareCodeWeeklyOrigin, FareCodeMonthlyOrigin, FareCodeQuarterlyOrigin, FareCodeAnnualOrigin:
		return EndOrigin
	case FareCodeDayDestinationOutward, FareCodeDayDestinationReturn,
		FareCodeWeeklyDestination, FareCodeMonthlyDestination, FareCodeQuarterlyDestination, FareCodeAnnualDestination:
		return EndDestination
	}

	return ""
}

// RJIS ticket codes used for plusbus products
const (
	TicketCodePlusBusDay       = "PBD"
	TicketCodePlusBusWeekly    = "PB7"
	TicketCodePlusBusMonthly   = "BMS"
	TicketCodePlusBusQuarterly = "BQS"
	TicketCodePlusBusAnnual    = "BAS"
)

var seasonFareCodes = map[string][2]FareCode{
	TicketCodePlusBusWeekly:    {FareCodeWeeklyOrigin, FareCodeWeeklyDestination},
	TicketCodePlusBusMonthly:   {FareCodeMonthlyOrigin, FareCodeMonthlyDestination},
	TicketCodePlusBusQuarterly: {FareCodeQuarterlyOrigin, FareCodeQuarterlyDestination},
	TicketCodePlusBusAnnual:    {FareCodeAnnualOrigin, FareCodeAnnualDestination},
}

// FareCodeFor maps an RJIS plusbus ticket code found at one end of the journey to the key used
// in the plusbus fares table. Season tickets only exist for the outward leg.
func FareCodeFor(ticketCode string, end End, leg Leg) (FareCode, bool) {
	ticketCode = strings.ToUpper(strings.TrimSpace(ticketCode))

	if ticketCode == TicketCodePlusBusDay {
		switch {
		case end == EndOrigin && leg == LegOutward:
			return FareCodeDayOriginOutward, true
		case end == EndDestination && leg == LegOutward:
			return FareCodeDayDestinationOutward, true
		case end == EndDestination && leg == LegReturn:
			return FareCodeDayDestinationReturn, true
		case end == EndOrigin && leg == LegReturn:
			return FareCodeDayOriginReturn, true
		}

		return "", false
	}

	codes, exists := seasonFareCodes[ticketCode]
	if !exists || leg != LegOutward {
		return "", false
	}

	switch end {
	case EndOrigin:
		return codes[0], true
	case EndDestination:
		return codes[1], true
	}

	return "", false
}
