package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/facetnav/internal/facet"
	"github.com/oakwood-commons/facetnav/internal/tabular"
)

// Format is an export output format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTOML     Format = "toml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the supported export formats.
func Formats() []string {
	return []string{string(FormatCSV), string(FormatJSON), string(FormatYAML), string(FormatTOML), string(FormatMarkdown), string(FormatHTML)}
}

// ParseFormat accepts a format name or a common alias such as "md" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unsupported output format %q (use %s)", s, strings.Join(Formats(), ", "))
}

// ExportOptions carries page context for the document formats.
type ExportOptions struct {
	// Title heads Markdown and HTML output.
	Title string
	// Filters are listed above the table in Markdown and HTML output.
	Filters facet.FilterSet
	// Delimiter separates CSV fields; zero means a comma.
	Delimiter rune
	// EmptyMessage replaces the table when there are no rows.
	EmptyMessage string
}

// record is one row keyed by column, marshaled in column order.
type record struct {
	keys   []string
	values []string
}

func (r record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r record) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i, k := range r.keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.values[i]},
		)
	}
	return node, nil
}

func records(schema facet.Schema, rows []tabular.Row) ([]string, []record) {
	cols := schema.DisplayColumns()
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.Key
	}
	out := make([]record, len(rows))
	for i, r := range rows {
		out[i] = record{keys: keys, values: r.Values(keys)}
	}
	return keys, out
}

// Export writes rows to w in format. Machine formats (CSV, JSON, YAML,
// TOML) use column keys; Markdown and HTML use display labels.
func Export(w io.Writer, format Format, schema facet.Schema, rows []tabular.Row, opts ExportOptions) error {
	switch format {
	case FormatCSV:
		return exportCSV(w, schema, rows, opts.Delimiter)
	case FormatJSON:
		_, recs := records(schema, rows)
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(recs)
	case FormatYAML:
		_, recs := records(schema, rows)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(recs); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return exportTOML(w, schema, rows, opts.Filters)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(schema, rows, opts))
		return err
	case FormatHTML:
		_, err := w.Write(HTML(schema, rows, opts))
		return err
	}
	return fmt.Errorf("unsupported output format %q", format)
}

func exportCSV(w io.Writer, schema facet.Schema, rows []tabular.Row, delim rune) error {
	cw := csv.NewWriter(w)
	if delim != 0 {
		cw.Comma = delim
	}
	keys, recs := records(schema, rows)
	if err := cw.Write(keys); err != nil {
		return err
	}
	for _, r := range recs {
		if err := cw.Write(r.values); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportTOML(w io.Writer, schema facet.Schema, rows []tabular.Row, filters facet.FilterSet) error {
	_, recs := records(schema, rows)
	doc := struct {
		Filters map[string]string   `toml:"filters"`
		Rows    []map[string]string `toml:"rows"`
	}{
		Filters: filters.Map(),
		Rows:    make([]map[string]string, len(recs)),
	}
	for i, r := range recs {
		m := make(map[string]string, len(r.keys))
		for j, k := range r.keys {
			m[k] = r.values[j]
		}
		doc.Rows[i] = m
	}
	enc := toml.NewEncoder(w)
	return enc.Encode(doc)
}

// Markdown renders a results page: a heading, the active filters and a
// pipe table.
func Markdown(schema facet.Schema, rows []tabular.Row, opts ExportOptions) string {
	var b strings.Builder
	if opts.Title != "" {
		b.WriteString("# " + escapeMarkdown(opts.Title) + "\n\n")
	}
	for _, f := range opts.Filters {
		b.WriteString("- " + escapeMarkdown(f.Column) + ": " + escapeMarkdown(f.Value) + "\n")
	}
	if len(opts.Filters) > 0 {
		b.WriteString("\n")
	}
	if len(rows) == 0 {
		if opts.EmptyMessage != "" {
			b.WriteString(escapeMarkdown(opts.EmptyMessage) + "\n")
		}
		return b.String()
	}

	header, recs := ResultRecords(schema, rows)
	writeMarkdownRow(&b, header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	writeMarkdownRow(&b, sep)
	for _, r := range recs {
		writeMarkdownRow(&b, r)
	}
	return b.String()
}

func writeMarkdownRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		if c != "---" {
			c = escapeMarkdown(c)
		}
		b.WriteString(" " + c + " |")
	}
	b.WriteString("\n")
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", "&lt;",
	">", "&gt;",
	"\n", " ",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// HTML renders the Markdown page as a complete HTML document.
func HTML(schema facet.Schema, rows []tabular.Row, opts ExportOptions) []byte {
	md := Markdown(schema, rows, opts)
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: opts.Title,
	})
	return markdown.Render(doc, renderer)
}
