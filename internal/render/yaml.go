package render

import (
	"bytes"

	"github.com/goccy/go-yaml"

	"github.com/bandkit/bandkit/internal/domain/run"
)

// YAMLRenderer emits the instruction list as a YAML sequence.
type YAMLRenderer struct{}

func (r *YAMLRenderer) Render(instructions []run.Instruction, opts Options) ([]byte, error) {
	if instructions == nil {
		instructions = []run.Instruction{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf, yaml.Indent(2))
	if err := enc.Encode(instructions); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *YAMLRenderer) SupportsStreaming() bool { return true }

func (r *YAMLRenderer) FileExtension() string { return "yaml" }
