package fares

import "strings"

// Parse reads a serialized fares response. It returns a *MalformedDocumentError when the
// text cannot be tokenised under the selected grammar (strict unless WithGrammar says
// otherwise) and the first *SchemaViolation when it can but breaks the schema.
func Parse(raw []byte, opts ...Option) (FareResponse, error) {
	response, violations, err := Diagnose(raw, opts...)
	if err != nil {
		return FareResponse{}, err
	}
	if len(violations) > 0 {
		return FareResponse{}, violations.First()
	}

	return response, nil
}

// Diagnose is the non failing variant of Parse used by tooling. Malformed input is still
// returned as an error, every schema problem is collected into the returned Violations.
func Diagnose(raw []byte, opts ...Option) (FareResponse, Violations, error) {
	o := newOptions(opts)

	tree, err := tokenize(raw, o.grammar)
	if err != nil {
		return FareResponse{}, nil, err
	}

	d := &decoder{}
	response := d.response(tree)

	violations := d.violations
	for _, violation := range Validate(response) {
		if !coveredBy(violation.Field, d.violations) {
			violations = append(violations, violation)
		}
	}

	return response, violations, nil
}

// coveredBy reports whether a value violation is just a consequence of a field that was
// already missing or of the wrong type.
func coveredBy(field string, decodeViolations Violations) bool {
	for _, violation := range decodeViolations {
		if violation.Field == "" || violation.Field == field {
			return true
		}
		if strings.HasPrefix(field, violation.Field+".") || strings.HasPrefix(field, violation.Field+"[") {
			return true
		}
	}

	return false
}
