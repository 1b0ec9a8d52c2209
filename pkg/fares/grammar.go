package fares

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"

	"github.com/goccy/go-json"
	"github.com/titanous/json5"
)

// Grammar selects how permissive the tokenizer is.
type Grammar string

const (
	// GrammarStrict is plain JSON: quoted keys, no comments and no trailing commas.
	GrammarStrict Grammar = "strict"

	// GrammarLenient also accepts hand edited fixtures: comments, unquoted keys, trailing
	// commas and a leading javascript assignment such as `r = {`.
	GrammarLenient Grammar = "lenient"
)

func ParseGrammar(value string) (Grammar, error) {
	switch Grammar(value) {
	case "", GrammarStrict:
		return GrammarStrict, nil
	case GrammarLenient:
		return GrammarLenient, nil
	}

	return "", fmt.Errorf("unknown grammar %q", value)
}

type Option func(*options)

type options struct {
	grammar Grammar
}

func WithGrammar(grammar Grammar) Option {
	return func(o *options) {
		o.grammar = grammar
	}
}

func newOptions(opts []Option) options {
	o := options{grammar: GrammarStrict}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

var (
	leadingAssignment = regexp.MustCompile(`^\s*(?:(?:var|let|const)\s+)?[A-Za-z_$][A-Za-z0-9_$.]*\s*=\s*`)
	trailingSemicolon = regexp.MustCompile(`;\s*$`)

	errTrailingContent = errors.New("unexpected content after the document")
)

// tokenize turns the raw text into a generic tree of maps, slices, strings, numbers and
// bools. Numbers are kept as their literal text so large integers are not rounded.
func tokenize(raw []byte, grammar Grammar) (any, error) {
	switch grammar {
	case GrammarStrict:
		return tokenizeStrict(raw)
	case GrammarLenient:
		return tokenizeLenient(raw)
	}

	return nil, malformed(grammar, fmt.Errorf("unknown grammar %q", grammar))
}

func tokenizeStrict(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, malformed(GrammarStrict, err)
	}

	if rest := bytes.TrimLeft(raw[dec.InputOffset():], " \t\r\n"); len(rest) > 0 {
		return nil, &MalformedDocumentError{
			Grammar: GrammarStrict,
			Offset:  int64(len(raw) - len(rest)),
			Err:     errTrailingContent,
		}
	}

	return tree, nil
}

func tokenizeLenient(raw []byte) (any, error) {
	body := leadingAssignment.ReplaceAll(raw, nil)
	body = trailingSemicolon.ReplaceAll(body, nil)

	// Unmarshal checks the whole body including trailing comments, the decoder is only used
	// for its exact numbers.
	if err := json5.Unmarshal(body, new(any)); err != nil {
		return nil, malformed(GrammarLenient, err)
	}

	dec := json5.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, malformed(GrammarLenient, err)
	}

	return tree, nil
}

func malformed(grammar Grammar, err error) *MalformedDocumentError {
	malformedErr := &MalformedDocumentError{
		Grammar: grammar,
		Err:     err,
	}

	var syntaxErr *json.SyntaxError
	var lenientSyntaxErr *json5.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		malformedErr.Offset = syntaxErr.Offset
	case errors.As(err, &lenientSyntaxErr):
		malformedErr.Offset = lenientSyntaxErr.Offset
	}

	return malformedErr
}
