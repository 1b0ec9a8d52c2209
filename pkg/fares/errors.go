package fares

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedDocument = errors.New("malformed document")
	ErrSchemaViolation   = errors.New("schema violation")
)

// MalformedDocumentError is returned when the input cannot be tokenised under the selected grammar.
type MalformedDocumentError struct {
	Grammar Grammar
	Offset  int64
	Err     error
}

func (e *MalformedDocumentError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("malformed %s document at offset %d: %v", e.Grammar, e.Offset, e.Err)
	}

	return fmt.Sprintf("malformed %s document: %v", e.Grammar, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// SchemaViolation describes a document that parsed but broke a field, type or enum constraint.
// Field is a dotted path such as fares.result[0].flows[1].route.
type SchemaViolation struct {
	Field  string
	Reason string
}

func (v *SchemaViolation) Error() string {
	if v.Field == "" {
		return v.Reason
	}

	return fmt.Sprintf("%s: %s", v.Field, v.Reason)
}

func (v *SchemaViolation) Is(target error) bool {
	return target == ErrSchemaViolation
}

// Violations is an ordered list of every problem found in a document.
type Violations []SchemaViolation

func (v Violations) Error() string {
	messages := make([]string, 0, len(v))
	for i := range v {
		messages = append(messages, v[i].Error())
	}

	return strings.Join(messages, "; ")
}

// Err returns nil when there are no violations so callers can use the usual err != nil check.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}

	return v
}

// First returns the first violation as an error or nil.
func (v Violations) First() error {
	if len(v) == 0 {
		return nil
	}

	violation := v[0]
	return &violation
}

// Fields lists the field paths of every violation in order.
func (v Violations) Fields() []string {
	fields := make([]string, 0, len(v))
	for _, violation := range v {
		fields = append(fields, violation.Field)
	}

	return fields
}

func (v Violations) Is(target error) bool {
	return target == ErrSchemaViolation && len(v) > 0
}

type violationCollector struct {
	violations Violations
}

func (c *violationCollector) add(field string, format string, args ...any) {
	c.violations = append(c.violations, SchemaViolation{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	})
}

func fieldPath(parent string, name string) string {
	if parent == "" {
		return name
	}

	return parent + "." + name
}

func indexPath(parent string, index int) string {
	return fmt.Sprintf("%s[%d]", parent, index)
}
