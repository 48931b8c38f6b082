package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bandkit/bandkit/internal/domain/run"
)

// TextRenderer emits a plain-text page layout for terminals, one line
// per instruction, with page separators.
type TextRenderer struct{}

func (r *TextRenderer) Render(instructions []run.Instruction, opts Options) ([]byte, error) {
	var buf bytes.Buffer

	if opts.Title != "" {
		fmt.Fprintln(&buf, opts.Title)
		fmt.Fprintln(&buf, strings.Repeat("─", len([]rune(opts.Title))))
	}

	page := -1
	for _, ins := range instructions {
		if ins.Page != page {
			if page >= 0 {
				fmt.Fprintln(&buf)
			}
			page = ins.Page
			fmt.Fprintf(&buf, "── page %d ──\n", page+1)
		}
		fmt.Fprintf(&buf, "[%s] %s: %s\n", ins.Band, ins.Element, ins.Text)
	}
	return buf.Bytes(), nil
}

func (r *TextRenderer) SupportsStreaming() bool { return true }

func (r *TextRenderer) FileExtension() string { return "txt" }
