package identity

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nao1215/psvident/internal/model"
)

// delimiter separates the key from the value in an id.dat token.
const delimiter = "="

// MatchMode selects how a token is associated with a key.
type MatchMode int

const (
	// MatchContains accepts a token when it contains "KEY=" anywhere.
	// A value that embeds another key's tag is attributed to the first key
	// found in MID, DIG, DID, AID, OID, SVR order.
	MatchContains MatchMode = iota

	// MatchPrefix accepts a token only when it starts with "KEY=".
	MatchPrefix
)

// String returns the name of the match mode.
func (m MatchMode) String() string {
	if m == MatchPrefix {
		return "prefix"
	}
	return "contains"
}

// FieldUpdate is the result of parsing one recognized token.
type FieldUpdate struct {
	Field model.Field
	Value string
}

// Apply stores the update in rec, overwriting any previous value.
// It reports whether the value was truncated to the field capacity.
func (u FieldUpdate) Apply(rec *model.IdentityRecord) bool {
	return rec.Set(u.Field, u.Value)
}

// Parser turns id.dat tokens into field updates.
// The zero value uses MatchContains.
type Parser struct {
	mode MatchMode
}

// Option configures a Parser.
type Option func(*Parser)

// WithMatchMode sets the key matching strategy.
func WithMatchMode(mode MatchMode) Option {
	return func(p *Parser) {
		p.mode = mode
	}
}

// NewParser creates a Parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{mode: MatchContains}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mode returns the configured match mode.
func (p *Parser) Mode() MatchMode {
	return p.mode
}

// ParseLine parses a single token with the default (contains) matching.
func ParseLine(token string) (FieldUpdate, error) {
	return NewParser().ParseLine(token)
}

// ParseLine parses a single token.
// Unknown tokens return a *ParseWarning wrapping ErrMalformedRecord, and a
// known key with nothing after the delimiter returns one wrapping
// ErrMissingValue.
func (p *Parser) ParseLine(token string) (FieldUpdate, error) {
	field, ok := p.match(token)
	if !ok {
		return FieldUpdate{}, &ParseWarning{Token: token, Err: ErrMalformedRecord}
	}

	_, value, found := strings.Cut(token, delimiter)
	if !found || value == "" {
		return FieldUpdate{}, &ParseWarning{Token: token, Err: ErrMissingValue}
	}

	return FieldUpdate{Field: field, Value: value}, nil
}

// match returns the field whose key tag is recognized in token.
func (p *Parser) match(token string) (model.Field, bool) {
	for _, f := range model.AllFields() {
		tag := f.Key() + delimiter
		switch p.mode {
		case MatchPrefix:
			if strings.HasPrefix(token, tag) {
				return f, true
			}
		default:
			if strings.Contains(token, tag) {
				return f, true
			}
		}
	}
	return 0, false
}

// MaxTokenLen is the length at which a token is rejected as too long.
// Real id.dat values are far below it.
const MaxTokenLen = 4 * 1024

// Parse reads every whitespace separated token from r and applies it to a
// new record. Tokens that cannot be parsed are returned as warnings with
// their line number; they never stop parsing. The error is non-nil only when
// reading from r fails, in which case the record holds what was read so far.
func (p *Parser) Parse(r io.Reader) (model.IdentityRecord, []*ParseWarning, error) {
	var (
		rec      model.IdentityRecord
		warnings []*ParseWarning
	)

	tok := &tokenizer{maxLen: MaxTokenLen}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 512), MaxTokenLen)
	scanner.Split(tok.split)
	for scanner.Scan() {
		token := scanner.Text()
		if tok.tooLong {
			warnings = append(warnings, &ParseWarning{Line: tok.tokenLine, Token: token, Err: ErrTokenTooLong})
			continue
		}
		update, err := p.ParseLine(token)
		if err != nil {
			w := asWarning(err, token)
			w.Line = tok.tokenLine
			warnings = append(warnings, w)
			continue
		}
		update.Apply(&rec)
	}

	if err := scanner.Err(); err != nil {
		return rec, warnings, fmt.Errorf("failed to read identity file: %w", err)
	}

	return rec, warnings, nil
}

// tokenizer is a bufio.SplitFunc that yields whitespace separated tokens and
// tracks the line each one starts on. A token reaching maxLen bytes is cut
// there and flagged, and the rest of it is skipped.
type tokenizer struct {
	maxLen     int
	line       int  // newlines consumed so far
	tokenLine  int  // 1-based line of the last token
	tooLong    bool // last token was cut at maxLen
	discarding bool // inside the tail of an overlong token
}

func (t *tokenizer) split(data []byte, atEOF bool) (int, []byte, error) {
	advance := 0
	if t.discarding {
		for advance < len(data) && !isSpace(data[advance]) {
			advance++
		}
		if advance == len(data) && !atEOF {
			return advance, nil, nil
		}
		t.discarding = false
	}

	for advance < len(data) && isSpace(data[advance]) {
		if data[advance] == '\n' {
			t.line++
		}
		advance++
	}
	start := advance
	for advance < len(data) && !isSpace(data[advance]) {
		advance++
	}

	t.tokenLine = t.line + 1
	t.tooLong = false
	n := advance - start
	switch {
	case n >= t.maxLen:
		t.tooLong = true
		t.discarding = advance == len(data) && !atEOF
		return advance, data[start : start+t.maxLen], nil
	case n > 0 && (advance < len(data) || atEOF):
		return advance, data[start:advance], nil
	default:
		// Keep the partial token buffered and ask for more input.
		return start, nil, nil
	}
}

// isSpace reports whether b separates tokens.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// ParseFile opens path and parses it with Parse.
// A missing or unreadable file returns an empty record and an error wrapping
// ErrResourceUnavailable.
func (p *Parser) ParseFile(path string) (model.IdentityRecord, []*ParseWarning, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the dump directory the user selected
	if err != nil {
		return model.IdentityRecord{}, nil, fmt.Errorf("%w: %s: %w", ErrResourceUnavailable, path, err)
	}
	defer func() { _ = f.Close() }()

	return p.Parse(f)
}

// Parse parses r with a default Parser.
func Parse(r io.Reader) (model.IdentityRecord, []*ParseWarning, error) {
	return NewParser().Parse(r)
}

// ParseFile parses the file at path with a default Parser.
func ParseFile(path string) (model.IdentityRecord, []*ParseWarning, error) {
	return NewParser().ParseFile(path)
}

// asWarning returns err as a *ParseWarning, wrapping foreign errors.
func asWarning(err error, token string) *ParseWarning {
	if w, ok := err.(*ParseWarning); ok { //nolint:errorlint // ParseLine returns the concrete type unwrapped
		return w
	}
	return &ParseWarning{Token: token, Err: err}
}
