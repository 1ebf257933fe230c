package csvcodec

import "strings"

// Table is a decoded CSV document.
type Table struct {
	// Header holds the trimmed, lower-cased column names.
	Header []string
	Rows   []Row
}

// Row is one decoded data record.
type Row struct {
	// Line is the 1-based physical line the record starts on, counting the
	// header and any skipped blank lines.
	Line   int
	Record Record
}

// HeaderIndex maps lower-cased column names to their position in the header.
// When a name repeats, the first position wins.
type HeaderIndex map[string]int

// Index returns the header positions of the table.
func (t Table) Index() HeaderIndex {
	idx := make(HeaderIndex, len(t.Header))
	for i, name := range t.Header {
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
	}
	return idx
}

// HasColumns reports whether every name is present in the header.
func (t Table) HasColumns(names ...string) bool {
	idx := t.Index()
	for _, name := range names {
		if _, ok := idx[strings.ToLower(name)]; !ok {
			return false
		}
	}
	return true
}

// Records returns the row records without line information.
func (t Table) Records() []Record {
	records := make([]Record, len(t.Rows))
	for i, row := range t.Rows {
		records[i] = row.Record
	}
	return records
}

// Decode parses CSV text with a header row into records keyed by the
// lower-cased header names. It is DecodeTable without line numbers.
func Decode(text string) []Record {
	return DecodeTable(text).Records()
}

// DecodeTable parses CSV text into a header and data rows.
//
// Blank and whitespace-only lines are skipped. The first remaining line is
// the header. Cells past the end of the header are dropped; a short row
// leaves its trailing columns absent. Columns with an empty header name are
// not keyed.
func DecodeTable(text string) Table {
	var t Table
	s := scanner{text: text, line: 1}
	headerSeen := false

	for {
		cells, line, blank, ok := s.next()
		if !ok {
			break
		}
		if blank {
			continue
		}

		if !headerSeen {
			headerSeen = true
			t.Header = make([]string, len(cells))
			for i, cell := range cells {
				t.Header[i] = strings.ToLower(strings.TrimSpace(cell))
			}
			continue
		}

		rec := make(Record, 0, len(t.Header))
		for i, cell := range cells {
			if i >= len(t.Header) {
				break
			}
			if t.Header[i] == "" {
				continue
			}
			rec = append(rec, Field{Name: t.Header[i], Value: cell})
		}
		t.Rows = append(t.Rows, Row{Line: line, Record: rec})
	}
	return t
}

type scanState int

const (
	stateUnquoted scanState = iota
	stateQuoted
	stateQuoteInQuoted
)

// scanner walks the input one byte at a time. Only ASCII bytes (comma,
// quote, CR, LF) drive state changes, so multi-byte UTF-8 sequences pass
// through untouched.
type scanner struct {
	text string
	pos  int
	line int
}

// next returns the cells of the next record and the line it starts on.
// blank is true for an empty or whitespace-only line with no quoted cell.
// ok is false once the input is exhausted.
func (s *scanner) next() (cells []string, line int, blank bool, ok bool) {
	if s.pos >= len(s.text) {
		return nil, 0, false, false
	}
	line = s.line

	var cell strings.Builder
	state := stateUnquoted
	sawQuote := false

	// A trailing \r belongs to a CRLF terminator only when the cell
	// closes the record.
	endCell := func(atLineEnd bool) {
		v := cell.String()
		if atLineEnd && state == stateUnquoted {
			v = strings.TrimSuffix(v, "\r")
		}
		cells = append(cells, v)
		cell.Reset()
	}

scan:
	for s.pos < len(s.text) {
		c := s.text[s.pos]
		s.pos++

		switch state {
		case stateUnquoted:
			switch c {
			case ',':
				endCell(false)
			case '"':
				if cell.Len() == 0 {
					state = stateQuoted
					sawQuote = true
				} else {
					cell.WriteByte(c)
				}
			case '\n':
				s.line++
				break scan
			default:
				cell.WriteByte(c)
			}

		case stateQuoted:
			switch c {
			case '"':
				state = stateQuoteInQuoted
			case '\n':
				s.line++
				cell.WriteByte(c)
			default:
				cell.WriteByte(c)
			}

		case stateQuoteInQuoted:
			switch c {
			case '"':
				cell.WriteByte('"')
				state = stateQuoted
			case ',':
				cells = append(cells, cell.String())
				cell.Reset()
				state = stateUnquoted
			case '\n':
				s.line++
				break scan
			case '\r':
				if s.pos < len(s.text) && s.text[s.pos] == '\n' {
					continue
				}
				cell.WriteByte(c)
				state = stateUnquoted
			default:
				// Text after a closing quote is kept as literal data.
				cell.WriteByte(c)
				state = stateUnquoted
			}
		}
	}

	// A cell closed by a quote is kept verbatim; an unterminated quoted cell
	// keeps everything up to the end of input.
	if state == stateQuoteInQuoted {
		cells = append(cells, cell.String())
	} else {
		endCell(true)
	}

	blank = !sawQuote && len(cells) == 1 && strings.TrimSpace(cells[0]) == ""
	return cells, line, blank, true
}
