package fares

import (
	"regexp"
	"sort"
	"strconv"

	"golang.org/x/exp/slices"
)

var (
	numericPattern     = regexp.MustCompile(`^[0-9]+$`)
	nlcPattern         = regexp.MustCompile(`^[0-9A-Z]{4}$`)
	routePattern       = regexp.MustCompile(`^[0-9]{5}$`)
	crsPattern         = regexp.MustCompile(`^[A-Z]{3}$`)
	railcardPattern    = regexp.MustCompile(`^[0-9A-Z ]{3}$`)
	ticketCodePattern  = regexp.MustCompile(`^[0-9A-Z]{3}$`)
	restrictionPattern = regexp.MustCompile(`^(?:[0-9A-Z ]{2})?$`)
)

var (
	validTicketClasses = []int{0, 1, 2, 9}
	validTicketTypes   = []string{"", "S", "R", "N"}
)

// Validate checks every value rule of the document and returns all violations in document
// order. It never stops at the first problem.
func Validate(doc FareResponse) Violations {
	v := &validator{}
	v.response(doc)

	return v.violations
}

type validator struct {
	violationCollector
}

func (v *validator) response(doc FareResponse) {
	v.numeric("tech.serverutc", doc.Tech.ServerUTC)
	v.numeric("tech.servercpu", doc.Tech.ServerCPU)
	v.nonEmpty("tech.computerid", doc.Tech.ComputerID)

	v.numeric("fares.ftec.version", doc.Fares.Tech.Version)
	v.numeric("fares.ftec.ndfversion", doc.Fares.Tech.NDFVersion)
	v.nonEmpty("fares.orig", doc.Fares.Origin)
	v.nonEmpty("fares.dest", doc.Fares.Destination)

	for i, result := range doc.Fares.Results {
		v.fareResult(indexPath("fares.result", i), result)
	}

	v.pattern("times.ocrs", doc.Times.OriginCRS, crsPattern, "must be a three letter CRS code")
	v.pattern("times.dcrs", doc.Times.DestinationCRS, crsPattern, "must be a three letter CRS code")

	for i, journey := range doc.Times.Journeys {
		path := indexPath("times.journeys", i)
		v.minuteOfDay(fieldPath(path, "dep"), journey.Departure)
		v.minuteOfDay(fieldPath(path, "arr"), journey.Arrival)
	}
}

func (v *validator) fareResult(path string, result FareResult) {
	v.pattern(fieldPath(path, "rlc"), result.Railcard, railcardPattern, "must be a three character railcard code")

	if result.PlusBus != nil {
		v.plusBus(fieldPath(path, "plusbus"), *result.PlusBus)
	}

	for i, flow := range result.Flows {
		v.flow(indexPath(fieldPath(path, "flows"), i), flow)
	}
}

func (v *validator) plusBus(path string, info PlusBusInfo) {
	v.pattern(fieldPath(path, "o"), info.Origin, nlcPattern, "must be a four character NLC")
	v.pattern(fieldPath(path, "d"), info.Destination, nlcPattern, "must be a four character NLC")
	v.pattern(fieldPath(path, "po"), info.PlusBusOrigin, nlcPattern, "must be a four character NLC")
	v.pattern(fieldPath(path, "pd"), info.PlusBusDestination, nlcPattern, "must be a four character NLC")

	if info.PlusBusOrigin == NoPlusBusZone && info.PlusBusDestination == NoPlusBusZone {
		v.add(path, "no plusbus zone at either end of the journey")
	}

	faresPath := fieldPath(path, "fares")
	if len(info.Fares) == 0 {
		v.add(faresPath, "must contain at least one fare")
		return
	}

	codes := make([]string, 0, len(info.Fares))
	for code := range info.Fares {
		codes = append(codes, string(code))
	}
	sort.Strings(codes)

	for _, key := range codes {
		code := FareCode(key)
		entry := info.Fares[code]
		entryPath := fieldPath(faresPath, key)

		switch {
		case !code.Valid():
			v.add(entryPath, "unknown plusbus fare code %q", key)
		case code.End() == EndOrigin && info.PlusBusOrigin == NoPlusBusZone:
			v.add(entryPath, "origin fare without a plusbus origin zone")
		case code.End() == EndDestination && info.PlusBusDestination == NoPlusBusZone:
			v.add(entryPath, "destination fare without a plusbus destination zone")
		}

		v.nonNegative(fieldPath(entryPath, "a"), entry.Adult)
		v.nonNegative(fieldPath(entryPath, "c"), entry.Child)
	}
}

func (v *validator) flow(path string, flow Flow) {
	v.pattern(fieldPath(path, "o"), flow.Origin, nlcPattern, "must be a four character NLC")
	v.pattern(fieldPath(path, "d"), flow.Destination, nlcPattern, "must be a four character NLC")
	v.pattern(fieldPath(path, "route"), flow.Route, routePattern, "must be a five digit route code")

	if flow.ID <= 0 && flow.ID != NDFMarker {
		v.add(fieldPath(path, "id"), "must be a positive flow id or %d, found %d", NDFMarker, flow.ID)
	}
	if flow.DiscountIndicator < NDFMarker {
		v.add(fieldPath(path, "discind"), "must not be below %d, found %d", NDFMarker, flow.DiscountIndicator)
	}

	faresPath := fieldPath(path, "fares")
	if len(flow.Fares) == 0 {
		v.add(faresPath, "must contain at least one fare")
		return
	}

	for i, fare := range flow.Fares {
		v.flowFare(indexPath(faresPath, i), fare)
	}
}

func (v *validator) flowFare(path string, fare FlowFare) {
	v.nonNegative(fieldPath(path, "a"), fare.Adult)
	v.nonNegative(fieldPath(path, "c"), fare.Child)
	v.pattern(fieldPath(path, "t"), fare.TicketCode, ticketCodePattern, "must be a three character ticket code")
	v.pattern(fieldPath(path, "r"), fare.RestrictionCode, restrictionPattern, "must be a two character restriction code")

	if !slices.Contains(validTicketClasses, fare.TicketClass) {
		v.add(fieldPath(path, "cl"), "must be ticket class 1, 2 or 9, found %d", fare.TicketClass)
	}
	if !slices.Contains(validTicketTypes, fare.TicketType) {
		v.add(fieldPath(path, "tt"), "must be ticket type S, R or N, found %q", fare.TicketType)
	}
}

func (v *validator) nonEmpty(path string, value string) {
	if value == "" {
		v.add(path, "must not be empty")
	}
}

func (v *validator) numeric(path string, value string) {
	if value == "" {
		v.add(path, "must not be empty")
	} else if !numericPattern.MatchString(value) {
		v.add(path, "must be a numeric string, found %q", value)
	}
}

func (v *validator) pattern(path string, value string, pattern *regexp.Regexp, reason string) {
	if !pattern.MatchString(value) {
		v.add(path, "%s, found %s", reason, strconv.Quote(value))
	}
}

func (v *validator) nonNegative(path string, value int) {
	if value < 0 {
		v.add(path, "must not be negative, found %d", value)
	}
}

func (v *validator) minuteOfDay(path string, value int) {
	if value < 0 || value >= MinutesPerDay {
		v.add(path, "must be a minute of the day in [0, %d), found %d", MinutesPerDay, value)
	}
}
