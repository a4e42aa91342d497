package anthropic

import (
	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/evertlam/chatkit/llm"
)

// deltaStream implements llm.DeltaStream over an Anthropic SSE stream.
type deltaStream struct {
	stream *ssestream.Stream[anthropic.MessageStreamEventUnion]
	delta  string
	err    error
	done   bool
}

func newDeltaStream(stream *ssestream.Stream[anthropic.MessageStreamEventUnion]) *deltaStream {
	return &deltaStream{stream: stream}
}

// Next advances past non-text events until a text delta or the end of the
// stream.
func (s *deltaStream) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	for s.stream.Next() {
		event := s.stream.Current()
		switch evt := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			if delta, ok := evt.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
				s.delta = delta.Text
				return true
			}
		case anthropic.MessageStopEvent:
			s.done = true
			return false
		}
	}
	s.done = true
	if err := s.stream.Err(); err != nil {
		s.err = llm.NewBackendError("anthropic: stream failed", err)
	}
	return false
}

// Delta returns the current text fragment.
func (s *deltaStream) Delta() string {
	return s.delta
}

// Err returns any error that occurred during streaming.
func (s *deltaStream) Err() error {
	return s.err
}

// Close closes the stream and releases resources.
func (s *deltaStream) Close() error {
	s.done = true
	if s.stream != nil {
		return s.stream.Close()
	}
	return nil
}

var _ llm.DeltaStream = (*deltaStream)(nil)
