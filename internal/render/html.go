package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const pageStyle = `body{font-family:Arial,Helvetica,sans-serif;font-size:11px;margin:24px;color:#212529}
h1{font-size:18px;text-align:center;margin:0 0 8px}
.meta{display:flex;justify-content:space-between;color:#787878;margin-bottom:12px}
.header p{margin:2px 0}
table{border-collapse:collapse;width:100%;margin-top:8px}
th{background:#212529;color:#fff;padding:4px;border:1px solid #999}
td{padding:3px 4px;border:1px solid #999}
tr.bold td{font-weight:bold;background:#ebebeb}
table.summary td{background:#f0f0f0;font-weight:bold}
table.summary td:first-child{text-align:right}
.signatures{display:flex;justify-content:space-between;margin-top:64px}
@page{size:A4 portrait}`

// htmlWriter writes escaped markup and keeps the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) { h.raw(templ.EscapeString(s)) }

func (h *htmlWriter) elem(tag, attrs, body string) {
	h.raw("<" + tag + attrs + ">")
	h.text(body)
	h.raw("</" + tag + ">")
}

// statementTable renders a statement's column headings and rows.
func statementTable(st statement) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if len(st.columns) == 0 {
			return nil
		}
		h.raw("<table class=\"items\"><thead><tr>")
		for _, c := range st.columns {
			h.elem("th", "", c.title)
		}
		h.raw("</tr></thead><tbody>")
		for _, r := range st.rows {
			if r.bold {
				h.raw("<tr class=\"bold\">")
			} else {
				h.raw("<tr>")
			}
			for i, c := range st.columns {
				h.elem("td", fmt.Sprintf(" style=\"text-align:%s\"", alignName(c.align)), r.values[i])
			}
			h.raw("</tr>")
		}
		h.raw("</tbody></table>")
		return h.err
	})
}

func summaryTable(lines []summaryLine) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if len(lines) == 0 {
			return nil
		}
		h := &htmlWriter{w: w}
		h.raw("<table class=\"summary\">")
		for _, l := range lines {
			h.raw("<tr>")
			h.elem("td", "", l.label)
			h.elem("td", " style=\"text-align:right;width:25%\"", l.value)
			h.raw("</tr>")
		}
		h.raw("</table>")
		return h.err
	})
}

// statementPage is a complete standalone HTML page for one statement.
func statementPage(st statement, meta Meta) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		h.elem("title", "", st.title)
		page := pageStyle
		if st.landscape {
			page = strings.Replace(page, "A4 portrait", "A4 landscape", 1)
		}
		h.raw("<style>" + page + "</style></head>")
		h.raw("<body>")
		h.elem("h1", "", st.title)
		h.raw("<div class=\"meta\">")
		h.elem("span", "", meta.Title)
		h.elem("span", "", "Date: "+meta.date())
		h.raw("</div>")

		if len(st.header) > 0 {
			h.raw("<div class=\"header\">")
			for _, line := range st.header {
				h.elem("p", "", line)
			}
			h.raw("</div>")
		}
		if h.err != nil {
			return h.err
		}
		if err := statementTable(st).Render(ctx, w); err != nil {
			return err
		}
		if err := summaryTable(st.summary).Render(ctx, w); err != nil {
			return err
		}

		for _, n := range st.notes {
			switch {
			case n.bold:
				h.raw("<p><strong>")
				h.text(n.text)
				h.raw("</strong></p>")
			case n.italic:
				h.raw("<p><em>")
				h.text(n.text)
				h.raw("</em></p>")
			default:
				h.elem("p", "", n.text)
			}
		}
		if st.signed {
			h.raw("<div class=\"signatures\">")
			for _, s := range signatories {
				h.elem("span", "", s)
			}
			h.raw("</div>")
		}
		h.raw("</body></html>")
		return h.err
	})
}

// statementHTML renders a statement as a standalone HTML page.
func statementHTML(ctx context.Context, st statement, meta Meta) ([]byte, error) {
	var buf bytes.Buffer
	if err := statementPage(st, meta).Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("failed to render %s HTML: %w", strings.ToLower(st.title), err)
	}
	return buf.Bytes(), nil
}
