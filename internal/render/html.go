package render

import (
	"bytes"
	"fmt"
	"html"
	"regexp"

	"github.com/bandkit/bandkit/internal/domain/run"
)

// HTMLRenderer lays instructions out as absolutely positioned spans,
// one div per page. Text and option values are escaped; colors are
// whitelisted to hex and CSS identifiers so format specs cannot inject
// markup.
type HTMLRenderer struct{}

var safeColor = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]+)$`)

func (r *HTMLRenderer) Render(instructions []run.Instruction, opts Options) ([]byte, error) {
	var buf bytes.Buffer

	title := html.EscapeString(opts.Title)
	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n", title)

	page := -1
	for _, ins := range instructions {
		if ins.Page != page {
			if page >= 0 {
				buf.WriteString("</div>\n")
			}
			page = ins.Page
			fmt.Fprintf(&buf, "<div class=\"page\" data-page=\"%d\" style=\"position:relative\">\n", page+1)
		}

		style := fmt.Sprintf("position:absolute;left:%gpt;top:%gpt", ins.X, ins.Y)
		if isTrue(ins.Options["bold"]) {
			style += ";font-weight:bold"
		}
		if color, ok := ins.Options["color"].(string); ok && safeColor.MatchString(color) {
			style += ";color:" + color
		}
		fmt.Fprintf(&buf, "  <span class=\"%s\" style=\"%s\">%s</span>\n",
			html.EscapeString(ins.Band+" "+ins.Element), style, html.EscapeString(ins.Text))
	}
	if page >= 0 {
		buf.WriteString("</div>\n")
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func (r *HTMLRenderer) SupportsStreaming() bool { return false }

func (r *HTMLRenderer) FileExtension() string { return "html" }
