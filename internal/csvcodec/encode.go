package csvcodec

import "strings"

// Header returns the ordered union of field names across records, in
// first-seen order, without the excluded names.
func Header(records []Record, exclude ...string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	seen := make(map[string]bool)
	var header []string
	for _, rec := range records {
		for _, f := range rec {
			if seen[f.Name] || skip[f.Name] {
				continue
			}
			seen[f.Name] = true
			header = append(header, f.Name)
		}
	}
	return header
}

// Encode renders records as CSV text: one header row followed by one row per
// record, joined with "\n" and without a trailing newline. Fields absent from
// a record render as empty cells. An empty collection encodes to "".
func Encode(records []Record, exclude ...string) string {
	header := Header(records, exclude...)
	if len(header) == 0 {
		return ""
	}

	var b strings.Builder
	writeRow(&b, header)

	cells := make([]string, len(header))
	for _, rec := range records {
		for i, name := range header {
			cells[i] = rec.Value(name)
		}
		b.WriteByte('\n')
		writeRow(&b, cells)
	}
	return b.String()
}

// writeRow writes one row of escaped cells.
// A row that would be blank or whitespace-only is skipped by the decoder, so
// its first cell is force-quoted.
func writeRow(b *strings.Builder, cells []string) {
	if len(cells) == 1 && strings.TrimSpace(cells[0]) == "" {
		b.WriteString(quote(cells[0]))
		return
	}
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Escape(cell))
	}
}

// Escape quotes a cell value if it contains a comma, a double quote or a
// line break. Other values are returned unchanged.
func Escape(value string) string {
	if strings.ContainsAny(value, ",\"\n\r") {
		return quote(value)
	}
	return value
}

func quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
