package fares

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// decoder converts the generic token tree into a FareResponse. It only reports absent
// fields and values of the wrong type, the value rules live in Validate.
type decoder struct {
	violationCollector
}

func (d *decoder) response(tree any) FareResponse {
	var response FareResponse

	root, ok := tree.(map[string]any)
	if !ok {
		d.add("", "document must be an object, found %s", describe(tree))
		return response
	}

	if tech, ok := d.requiredObject(root, "", "tech"); ok {
		response.Tech = d.tech(tech, "tech")
	}
	if faresBlock, ok := d.requiredObject(root, "", "fares"); ok {
		response.Fares = d.faresBlock(faresBlock, "fares")
	}
	if times, ok := d.requiredObject(root, "", "times"); ok {
		response.Times = d.times(times, "times")
	}

	return response
}

func (d *decoder) tech(obj map[string]any, path string) TechInfo {
	return TechInfo{
		ServerUTC:  d.numericString(obj, path, "serverutc"),
		ServerCPU:  d.numericString(obj, path, "servercpu"),
		ComputerID: d.requiredString(obj, path, "computerid"),
	}
}

func (d *decoder) faresBlock(obj map[string]any, path string) FaresBlock {
	var block FaresBlock

	if ftec, ok := d.requiredObject(obj, path, "ftec"); ok {
		ftecPath := fieldPath(path, "ftec")
		block.Tech = FaresTech{
			Version:    d.numericString(ftec, ftecPath, "version"),
			NDFVersion: d.numericString(ftec, ftecPath, "ndfversion"),
		}
	}

	block.Origin = d.requiredString(obj, path, "orig")
	block.Destination = d.requiredString(obj, path, "dest")

	results, ok := d.requiredArray(obj, path, "result")
	block.Results = make([]FareResult, 0, len(results))
	if !ok {
		return block
	}

	resultsPath := fieldPath(path, "result")
	for i, item := range results {
		itemPath := indexPath(resultsPath, i)
		result, ok := d.object(item, itemPath)
		if !ok {
			continue
		}

		block.Results = append(block.Results, d.fareResult(result, itemPath))
	}

	return block
}

func (d *decoder) fareResult(obj map[string]any, path string) FareResult {
	result := FareResult{
		Railcard: d.requiredString(obj, path, "rlc"),
	}

	if value, _, exists := lookup(obj, "plusbus"); exists && value != nil {
		plusbusPath := fieldPath(path, "plusbus")
		if plusbus, ok := d.object(value, plusbusPath); ok {
			info := d.plusBus(plusbus, plusbusPath)
			result.PlusBus = &info
		}
	}

	flows, ok := d.requiredArray(obj, path, "flows")
	result.Flows = make([]Flow, 0, len(flows))
	if !ok {
		return result
	}

	flowsPath := fieldPath(path, "flows")
	for i, item := range flows {
		itemPath := indexPath(flowsPath, i)
		flow, ok := d.object(item, itemPath)
		if !ok {
			continue
		}

		result.Flows = append(result.Flows, d.flow(flow, itemPath))
	}

	return result
}

func (d *decoder) plusBus(obj map[string]any, path string) PlusBusInfo {
	info := PlusBusInfo{
		Origin:             d.requiredString(obj, path, "o"),
		Destination:        d.requiredString(obj, path, "d"),
		PlusBusOrigin:      d.requiredString(obj, path, "po"),
		PlusBusDestination: d.requiredString(obj, path, "pd"),
		Fares:              PlusBusFares{},
	}

	fares, ok := d.requiredObject(obj, path, "fares")
	if !ok {
		return info
	}

	faresPath := fieldPath(path, "fares")
	for _, key := range sortedKeys(fares) {
		entryPath := fieldPath(faresPath, key)
		entry, ok := d.object(fares[key], entryPath)
		if !ok {
			continue
		}

		// Unknown codes are kept so Validate can report them against the value
		info.Fares[FareCode(key)] = FareTableEntry{
			Adult: d.amount(entry, entryPath, "a"),
			Child: d.amount(entry, entryPath, "c"),
		}
	}

	return info
}

func (d *decoder) flow(obj map[string]any, path string) Flow {
	flow := Flow{
		Origin:            d.requiredString(obj, path, "o"),
		Destination:       d.requiredString(obj, path, "d"),
		Route:             d.requiredString(obj, path, "route"),
		ID:                d.aliasedInteger(obj, path, "id", "flowid"),
		DiscountIndicator: d.aliasedInteger(obj, path, "discind", "discount"),
	}

	fares, ok := d.requiredArray(obj, path, "fares")
	flow.Fares = make([]FlowFare, 0, len(fares))
	if !ok {
		return flow
	}

	faresPath := fieldPath(path, "fares")
	for i, item := range fares {
		itemPath := indexPath(faresPath, i)
		fare, ok := d.object(item, itemPath)
		if !ok {
			continue
		}

		flow.Fares = append(flow.Fares, d.flowFare(fare, itemPath))
	}

	return flow
}

func (d *decoder) flowFare(obj map[string]any, path string) FlowFare {
	fare := FlowFare{
		Adult:           d.amount(obj, path, "a"),
		Child:           d.amount(obj, path, "c"),
		TicketCode:      d.requiredString(obj, path, "t"),
		RestrictionCode: d.requiredString(obj, path, "r"),
	}

	if value, _, exists := lookup(obj, "cl"); exists {
		fare.TicketClass = d.integerValue(value, fieldPath(path, "cl"), true)
	}
	if value, _, exists := lookup(obj, "tt"); exists {
		fare.TicketType = d.stringValue(value, fieldPath(path, "tt"))
	}

	return fare
}

func (d *decoder) times(obj map[string]any, path string) TimesBlock {
	block := TimesBlock{
		OriginCRS:      d.requiredString(obj, path, "ocrs"),
		DestinationCRS: d.requiredString(obj, path, "dcrs"),
	}

	journeys, ok := d.requiredArray(obj, path, "journeys")
	block.Journeys = make([]JourneyTime, 0, len(journeys))
	if !ok {
		return block
	}

	journeysPath := fieldPath(path, "journeys")
	for i, item := range journeys {
		itemPath := indexPath(journeysPath, i)
		journey, ok := d.object(item, itemPath)
		if !ok {
			continue
		}

		block.Journeys = append(block.Journeys, JourneyTime{
			Departure: d.integer(journey, itemPath, "dep"),
			Arrival:   d.integer(journey, itemPath, "arr"),
		})
	}

	return block
}

func (d *decoder) object(value any, path string) (map[string]any, bool) {
	obj, ok := value.(map[string]any)
	if !ok {
		d.add(path, "must be an object, found %s", describe(value))
	}

	return obj, ok
}

func (d *decoder) requiredObject(obj map[string]any, path string, name string) (map[string]any, bool) {
	value, _, exists := lookup(obj, name)
	if !exists {
		d.add(fieldPath(path, name), "required field is missing")
		return nil, false
	}

	return d.object(value, fieldPath(path, name))
}

func (d *decoder) requiredArray(obj map[string]any, path string, name string) ([]any, bool) {
	value, _, exists := lookup(obj, name)
	if !exists {
		d.add(fieldPath(path, name), "required field is missing")
		return nil, false
	}

	array, ok := value.([]any)
	if !ok {
		d.add(fieldPath(path, name), "must be an array, found %s", describe(value))
	}

	return array, ok
}

func (d *decoder) requiredString(obj map[string]any, path string, name string) string {
	value, _, exists := lookup(obj, name)
	if !exists {
		d.add(fieldPath(path, name), "required field is missing")
		return ""
	}

	return d.stringValue(value, fieldPath(path, name))
}

func (d *decoder) stringValue(value any, path string) string {
	str, ok := value.(string)
	if !ok {
		d.add(path, "must be a string, found %s", describe(value))
	}

	return str
}

// numericString accepts either a string or an integer and keeps the canonical string form.
func (d *decoder) numericString(obj map[string]any, path string, name string) string {
	value, _, exists := lookup(obj, name)
	if !exists {
		d.add(fieldPath(path, name), "required field is missing")
		return ""
	}

	switch typed := value.(type) {
	case string:
		return typed
	case number:
		if integer, ok := exactInteger(typed); ok {
			return strconv.Itoa(integer)
		}
	}

	d.add(fieldPath(path, name), "must be a numeric string, found %s", describe(value))
	return ""
}

// amount reads a price in pence which may be sent as a number or as a numeric string.
func (d *decoder) amount(obj map[string]any, path string, name string) int {
	value, _, exists := lookup(obj, name)
	if !exists {
		d.add(fieldPath(path, name), "required field is missing")
		return 0
	}

	return d.integerValue(value, fieldPath(path, name), true)
}

func (d *decoder) integer(obj map[string]any, path string, name string) int {
	value, _, exists := lookup(obj, name)
	if !exists {
		d.add(fieldPath(path, name), "required field is missing")
		return 0
	}

	return d.integerValue(value, fieldPath(path, name), false)
}

// aliasedInteger reads an integer that may be spelt with any of the given names. The first
// name is the canonical one used in violations.
func (d *decoder) aliasedInteger(obj map[string]any, path string, names ...string) int {
	canonicalPath := fieldPath(path, names[0])

	found := false
	var result int
	var resultName string

	for _, name := range names {
		value, _, exists := lookup(obj, name)
		if !exists {
			continue
		}

		integer := d.integerValue(value, fieldPath(path, name), true)
		if found && integer != result {
			d.add(canonicalPath, "conflicting values %d (%s) and %d (%s)", result, resultName, integer, name)
			continue
		}

		found = true
		result = integer
		resultName = name
	}

	if !found {
		d.add(canonicalPath, "required field is missing")
	}

	return result
}

func (d *decoder) integerValue(value any, path string, allowString bool) int {
	switch typed := value.(type) {
	case number:
		if integer, ok := exactInteger(typed); ok {
			return integer
		}

		d.add(path, "must be an integer, found %s", typed.String())
		return 0
	case string:
		if allowString {
			integer, err := strconv.Atoi(typed)
			if err == nil {
				return integer
			}

			d.add(path, "must be an integer, found string %q", typed)
			return 0
		}
	}

	d.add(path, "must be an integer, found %s", describe(value))
	return 0
}

// lookup finds a key by exact name first and then case-insensitively, so producers spelling
// keys as serverCPU or ndfVersion are accepted.
func lookup(obj map[string]any, name string) (any, string, bool) {
	if value, exists := obj[name]; exists {
		return value, name, true
	}

	var matches []string
	for key := range obj {
		if strings.EqualFold(key, name) {
			matches = append(matches, key)
		}
	}

	if len(matches) == 0 {
		return nil, "", false
	}

	sort.Strings(matches)
	return obj[matches[0]], matches[0], true
}

// number is the literal text of a JSON number as kept by either tokenizer.
type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
	String() string
}

// exactInteger accepts integer literals of any size that fit an int, and decimal or exponent
// forms such as 12.0 while they stay within the range a float64 holds exactly.
func exactInteger(value number) (int, bool) {
	if integer, err := value.Int64(); err == nil {
		if int64(int(integer)) != integer {
			return 0, false
		}

		return int(integer), true
	}

	float, err := value.Float64()
	if err != nil || float != math.Trunc(float) || math.Abs(float) >= 1<<53 {
		return 0, false
	}

	return int(float), true
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

func describe(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}

	return "unknown value"
}
