package openai

import (
	"errors"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/evertlam/chatkit/llm"
)

// deltaStream implements llm.DeltaStream over a go-openai completion stream.
type deltaStream struct {
	stream *openai.ChatCompletionStream
	delta  string
	err    error
	done   bool
}

func newDeltaStream(stream *openai.ChatCompletionStream) *deltaStream {
	return &deltaStream{stream: stream}
}

// Next pulls chunks until one carries a content delta or the stream ends.
func (s *deltaStream) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	for {
		response, err := s.stream.Recv()
		if err != nil {
			s.done = true
			if !errors.Is(err, io.EOF) {
				s.err = convertError(err)
			}
			return false
		}
		if len(response.Choices) == 0 {
			continue
		}
		if delta := response.Choices[0].Delta.Content; delta != "" {
			s.delta = delta
			return true
		}
		if response.Choices[0].FinishReason != "" {
			s.done = true
			return false
		}
	}
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
