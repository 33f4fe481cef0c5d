package partialjson

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MalformedError reports a structural JSON error that truncation cannot
// explain. Offset is the byte position of the offending input.
type MalformedError struct {
	Offset int
	Msg    string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed JSON at offset %d: %s", e.Offset, e.Msg)
}

// Option configures a Parse call.
type Option func(*options)

type options struct {
	partialStrings bool
}

// WithPartialStrings controls whether an unterminated trailing string value
// is kept as its decoded prefix. When disabled (the default) the incomplete
// string and, inside an object, its key are dropped entirely, so no partial
// string ever leaks into the result.
func WithPartialStrings(allow bool) Option {
	return func(o *options) {
		o.partialStrings = allow
	}
}

// member states inside a container
const (
	stExpectKeyOrClose = iota // object, before a key
	stExpectColon             // object, after a key
	stExpectValue             // object, after a colon; array, after a comma
	stExpectValueOrClose      // array, before the first element
	stExpectCommaOrClose      // object or array, after a value
)

type frame struct {
	kind  byte // '{' or '['
	state int
}

// scanner walks the input once, tracking open containers and the byte
// offset up to which the prefix is structurally committed.
type scanner struct {
	input string
	pos   int
	stack []frame

	// safe is the end of the longest prefix that, followed by one closing
	// bracket per open container, forms valid JSON. It advances at container
	// opens and at the end of every complete value, never at commas, colons
	// or keys, so cutting at safe also drops a dangling member.
	safe int

	topDone bool

	// set when the input ends inside a token
	partialString bool
	stringIsKey   bool
	stringEnd     int // end of the last fully decoded character of the open string
	partialToken  bool
}

// Parse parses input as a prefix of a JSON document. It returns the
// best-effort value, a flag reporting whether the input was a complete
// document (true only when the input ends exactly at a structural
// boundary), and a *MalformedError when the input contains a structural
// error rather than a truncation.
//
// Empty input yields an empty object sentinel with complete == false.
func Parse(input string, opts ...Option) (any, bool, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &scanner{input: input}
	if err := s.scan(); err != nil {
		return nil, false, err
	}

	synth, complete := s.synthesize(o.partialStrings)
	if strings.TrimSpace(synth) == "" {
		return map[string]any{}, false, nil
	}

	var value any
	if err := json.Unmarshal([]byte(synth), &value); err != nil {
		return nil, false, &MalformedError{Offset: s.pos, Msg: err.Error()}
	}
	return value, complete, nil
}

func (s *scanner) scan() error {
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		if isSpace(c) {
			s.pos++
			continue
		}

		if s.topDone {
			return &MalformedError{Offset: s.pos, Msg: "data after top-level value"}
		}

		switch s.expecting() {
		case stExpectKeyOrClose:
			switch c {
			case '"':
				return s.scanString(true)
			case '}':
				if err := s.close('}'); err != nil {
					return err
				}
			default:
				return &MalformedError{Offset: s.pos, Msg: fmt.Sprintf("expected object key or '}', got %q", c)}
			}

		case stExpectColon:
			if c != ':' {
				return &MalformedError{Offset: s.pos, Msg: fmt.Sprintf("expected ':' after object key, got %q", c)}
			}
			s.top().state = stExpectValue
			s.pos++

		case stExpectValue, stExpectValueOrClose:
			if c == ']' && s.expecting() == stExpectValueOrClose {
				if err := s.close(']'); err != nil {
					return err
				}
				continue
			}
			if err := s.scanValue(c); err != nil {
				return err
			}

		case stExpectCommaOrClose:
			switch c {
			case ',':
				if s.top().kind == '{' {
					s.top().state = stExpectKeyOrClose
				} else {
					s.top().state = stExpectValue
				}
				s.pos++
			case '}', ']':
				if err := s.close(c); err != nil {
					return err
				}
			default:
				return &MalformedError{Offset: s.pos, Msg: fmt.Sprintf("expected ',' or closing bracket, got %q", c)}
			}
		}
	}
	return nil
}

// expecting reports what the scanner should see next at the current depth.
// At top level before any value it expects a value.
func (s *scanner) expecting() int {
	if len(s.stack) == 0 {
		return stExpectValue
	}
	return s.top().state
}

func (s *scanner) top() *frame {
	return &s.stack[len(s.stack)-1]
}

func (s *scanner) scanValue(c byte) error {
	switch {
	case c == '{':
		s.stack = append(s.stack, frame{kind: '{', state: stExpectKeyOrClose})
		s.pos++
		s.safe = s.pos
	case c == '[':
		s.stack = append(s.stack, frame{kind: '[', state: stExpectValueOrClose})
		s.pos++
		s.safe = s.pos
	case c == '"':
		return s.scanString(false)
	case c == '-' || (c >= '0' && c <= '9'):
		s.scanNumber()
	case c == 't':
		return s.scanLiteral("true")
	case c == 'f':
		return s.scanLiteral("false")
	case c == 'n':
		return s.scanLiteral("null")
	case c == '}' || c == ']':
		return &MalformedError{Offset: s.pos, Msg: fmt.Sprintf("unmatched %q", c)}
	default:
		return &MalformedError{Offset: s.pos, Msg: fmt.Sprintf("unexpected character %q", c)}
	}
	return nil
}

// valueDone commits a completed value ending at end (exclusive).
func (s *scanner) valueDone(end int) {
	s.pos = end
	s.safe = end
	if len(s.stack) == 0 {
		s.topDone = true
		return
	}
	s.top().state = stExpectCommaOrClose
}

// close pops the current container. closer is the bracket byte actually
// read; a kind mismatch (']' closing an object) is a structural error that
// truncation cannot explain.
func (s *scanner) close(closer byte) error {
	want := byte('}')
	if s.top().kind == '[' {
		want = ']'
	}
	if closer != want {
		return &MalformedError{Offset: s.pos, Msg: fmt.Sprintf("unmatched %q", closer)}
	}
	s.stack = s.stack[:len(s.stack)-1]
	s.pos++
	s.safe = s.pos
	if len(s.stack) == 0 {
		s.topDone = true
	} else {
		s.top().state = stExpectCommaOrClose
	}
	return nil
}

// scanString consumes a string literal starting at the opening quote.
// On truncation it records how much of the decoded content is complete;
// an unescaped trailing backslash or a partial \uXXXX sequence drops back
// to the character before the escape.
func (s *scanner) scanString(isKey bool) error {
	start := s.pos
	i := start + 1
	lastComplete := i

	for i < len(s.input) {
		c := s.input[i]
		switch {
		case c == '"':
			if isKey {
				s.pos = i + 1
				s.top().state = stExpectColon
			} else {
				s.valueDone(i + 1)
			}
			return nil

		case c == '\\':
			if i+1 >= len(s.input) {
				i = len(s.input) // truncated mid-escape
				break
			}
			esc := s.input[i+1]
			switch esc {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				i += 2
				lastComplete = i
			case 'u':
				end := i + 6
				avail := min(end, len(s.input))
				for j := i + 2; j < avail; j++ {
					if !isHex(s.input[j]) {
						return &MalformedError{Offset: j, Msg: "invalid \\u escape"}
					}
				}
				if end > len(s.input) {
					i = len(s.input) // truncated mid-unicode-escape
					break
				}
				i = end
				lastComplete = i
			default:
				return &MalformedError{Offset: i + 1, Msg: fmt.Sprintf("invalid escape character %q", esc)}
			}

		case c < 0x20:
			return &MalformedError{Offset: i, Msg: "raw control character in string"}

		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(s.input[i:])
			if r == utf8.RuneError && size == 1 {
				if !utf8.FullRuneInString(s.input[i:]) {
					i = len(s.input) // rune cut at the chunk boundary
					break
				}
				return &MalformedError{Offset: i, Msg: "invalid UTF-8 sequence"}
			}
			i += size
			lastComplete = i

		default:
			i++
			lastComplete = i
		}
	}

	// Input ended inside the string.
	s.pos = len(s.input)
	s.partialString = true
	s.stringIsKey = isKey
	s.stringEnd = lastComplete
	return nil
}

func (s *scanner) scanNumber() {
	i := s.pos
	for i < len(s.input) && isNumberByte(s.input[i]) {
		i++
	}
	if i == len(s.input) {
		// A trailing number can always gain more digits; drop it rather
		// than guess.
		s.pos = i
		s.partialToken = true
		return
	}
	s.valueDone(i)
}

func (s *scanner) scanLiteral(word string) error {
	end := s.pos + len(word)
	avail := min(end, len(s.input))
	if s.input[s.pos:avail] != word[:avail-s.pos] {
		return &MalformedError{Offset: s.pos, Msg: fmt.Sprintf("invalid literal, expected %q", word)}
	}
	if end > len(s.input) {
		s.pos = len(s.input)
		s.partialToken = true
		return nil
	}
	s.valueDone(end)
	return nil
}

// synthesize builds a well-formed document from the committed prefix plus
// closing brackets for every still-open container.
func (s *scanner) synthesize(partialStrings bool) (string, bool) {
	var b strings.Builder

	switch {
	case s.partialString && !s.stringIsKey && partialStrings:
		b.WriteString(s.input[:s.stringEnd])
		b.WriteByte('"')
	default:
		// Cutting at safe drops a partial token, an incomplete string and
		// any dangling key or comma in front of it.
		b.WriteString(s.input[:s.safe])
	}

	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].kind == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}

	complete := s.topDone && len(s.stack) == 0 && !s.partialString && !s.partialToken
	return b.String(), complete
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isNumberByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E'
}
