package render

import (
	"encoding/json"

	"github.com/bandkit/bandkit/internal/domain/run"
)

// JSONRenderer emits the instruction list as a JSON array.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(instructions []run.Instruction, opts Options) ([]byte, error) {
	if instructions == nil {
		instructions = []run.Instruction{}
	}
	if opts.Indent {
		return json.MarshalIndent(instructions, "", "  ")
	}
	return json.Marshal(instructions)
}

func (r *JSONRenderer) SupportsStreaming() bool { return true }

func (r *JSONRenderer) FileExtension() string { return "json" }
