package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// JSONLSource reads one JSON object per line from a reader.
type JSONLSource struct {
	scanner *bufio.Scanner
	line    int
}

// NewJSONLSource creates a source over JSON-lines input.
func NewJSONLSource(r io.Reader) *JSONLSource {
	scanner := bufio.NewScanner(r)
	// Allow records larger than the bufio default.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &JSONLSource{scanner: scanner}
}

// Next implements Source.
func (s *JSONLSource) Next(ctx context.Context) (Record, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading record stream: %w", err)
			}
			return nil, io.EOF
		}
		s.line++

		text := strings.TrimSpace(s.scanner.Text())
		if text == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("line %d: invalid record: %w", s.line, err)
		}
		return rec, nil
	}
}
