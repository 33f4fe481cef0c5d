package normalize

import (
	"strings"

	"github.com/aabbccddwasd/llm-client/providers/ai"
)

// thinkingMode is the splitter's state: Idle until the first
// content-bearing fragment, then Thinking or Answering.
type thinkingMode int

const (
	modeIdle thinkingMode = iota
	modeThinking
	modeAnswering
)

// splitter classifies incoming text fragments as thinking or content. For
// field-separated adapters the classification comes from which delta field
// carried the text; for delimiter-tagged adapters it scans the content
// stream for the reserved open/close tokens, buffering enough tail bytes to
// catch a delimiter split across chunk boundaries.
//
// Thinking text is always accumulated for the terminal aggregate; it is
// forwarded as delta events only when keepThinking is set. Mode transitions
// are always forwarded.
type splitter struct {
	spec         ai.AdapterSpec
	keepThinking bool

	mode     thinkingMode
	thinking strings.Builder
	content  strings.Builder

	pending        []byte // unclassified tail, delimiter-tagged mode only
	hasThought     bool   // a thinking segment has already closed
	reentryFlagged bool   // re-entry mismatch is reported once per request
}

func newSplitter(spec ai.AdapterSpec, keepThinking bool) *splitter {
	return &splitter{spec: spec, keepThinking: keepThinking}
}

// feedReasoning handles text arriving in a dedicated reasoning field.
func (s *splitter) feedReasoning(text string) []Event {
	if text == "" {
		return nil
	}

	if s.mode == modeAnswering && s.hasThought && !s.spec.AllowReentry {
		// A second thinking segment after the answer started does not match
		// the adapter's declared shape. Report once and keep the text as
		// plain content.
		var events []Event
		if !s.reentryFlagged {
			s.reentryFlagged = true
			events = append(events, errorEvent(scopedError(KindAdapterMismatch, -1,
				"reasoning delta after answering began (family %q does not re-enter thinking)", s.spec.Family)))
		}
		return append(events, s.emitContent(text)...)
	}

	var events []Event
	if s.mode != modeThinking {
		s.mode = modeThinking
		events = append(events, Event{Type: EventThinkingStart})
	}
	events = append(events, s.emitThinking(text)...)
	return events
}

// feedContent handles text arriving in the content field. For
// delimiter-tagged adapters this is where thinking is carved out.
func (s *splitter) feedContent(text string) []Event {
	if text == "" {
		return nil
	}
	if s.spec.Thinking == ai.ThinkingByDelimiter {
		return s.scanDelimited(text)
	}

	var events []Event
	if s.mode == modeThinking {
		events = append(events, Event{Type: EventThinkingEnd})
		s.hasThought = true
	}
	s.mode = modeAnswering
	events = append(events, s.emitContent(text)...)
	return events
}

// scanDelimited walks the fragment byte by byte, switching modes when the
// buffered tail ends with a reserved delimiter. A close delimiter with no
// open before it never matches (it is only checked while thinking), so
// malformed sequences fall through as literal content.
func (s *splitter) scanDelimited(text string) []Event {
	var events []Event

	openDelim := s.spec.OpenDelimiter
	closeDelim := s.spec.CloseDelimiter

	for i := 0; i < len(text); i++ {
		s.pending = append(s.pending, text[i])

		if s.mode == modeThinking {
			if closeDelim != "" && s.tailIs(closeDelim) {
				segment := string(s.pending[:len(s.pending)-len(closeDelim)])
				s.pending = s.pending[:0]
				events = append(events, s.emitThinking(segment)...)
				events = append(events, Event{Type: EventThinkingEnd})
				s.mode = modeAnswering
				s.hasThought = true
			}
			continue
		}

		if openDelim != "" && s.tailIs(openDelim) {
			if s.mode == modeAnswering && s.hasThought && !s.spec.AllowReentry {
				// The delimiter stays in the buffer and flows out as
				// ordinary answer text.
				if !s.reentryFlagged {
					s.reentryFlagged = true
					events = append(events, errorEvent(scopedError(KindAdapterMismatch, -1,
						"thinking delimiter after answering began (family %q does not re-enter thinking)", s.spec.Family)))
				}
				continue
			}
			segment := string(s.pending[:len(s.pending)-len(openDelim)])
			s.pending = s.pending[:0]
			events = append(events, s.emitContent(segment)...)
			events = append(events, Event{Type: EventThinkingStart})
			s.mode = modeThinking
		}
	}

	events = append(events, s.flushSafe()...)
	return events
}

func (s *splitter) tailIs(delimiter string) bool {
	if len(s.pending) < len(delimiter) {
		return false
	}
	return string(s.pending[len(s.pending)-len(delimiter):]) == delimiter
}

// flushSafe emits everything in the pending buffer except the last
// len(delimiter)-1 bytes, which could be the head of a delimiter straddling
// the chunk boundary.
func (s *splitter) flushSafe() []Event {
	hold := max(len(s.spec.OpenDelimiter), len(s.spec.CloseDelimiter)) - 1
	if hold < 0 {
		hold = 0
	}
	if len(s.pending) <= hold {
		return nil
	}

	safe := len(s.pending) - hold
	segment := string(s.pending[:safe])
	s.pending = s.pending[safe:]

	if s.mode == modeThinking {
		return s.emitThinking(segment)
	}
	return s.emitAnswer(segment)
}

// flush drains the pending buffer at end of stream; a held-back partial
// delimiter that never completed is literal text.
func (s *splitter) flush() []Event {
	if len(s.pending) == 0 {
		return nil
	}
	segment := string(s.pending)
	s.pending = s.pending[:0]

	if s.mode == modeThinking {
		return s.emitThinking(segment)
	}
	return s.emitAnswer(segment)
}

// emitAnswer routes text that is definitively answer text, transitioning
// out of Idle on first use.
func (s *splitter) emitAnswer(text string) []Event {
	s.mode = modeAnswering
	return s.emitContent(text)
}

func (s *splitter) emitContent(text string) []Event {
	if text == "" {
		return nil
	}
	s.content.WriteString(text)
	return []Event{contentEvent(text)}
}

func (s *splitter) emitThinking(text string) []Event {
	if text == "" {
		return nil
	}
	s.thinking.WriteString(text)
	if !s.keepThinking {
		return nil
	}
	return []Event{thinkingEvent(text)}
}
