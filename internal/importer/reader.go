package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// RawRow maps header column names to the row's field values.
type RawRow map[string]string

// Row is a RawRow together with the 1-based line it was read from.
type Row struct {
	Line   int
	Fields RawRow
}

const utf8BOM = "\ufeff"

// ReadRows splits content into header-keyed rows. The first skipLines lines are
// discarded and the next line is the header. Blank lines are ignored, short
// rows are padded with "" and extra fields are dropped. A record may not span
// lines; a quote left open is a parse error.
func ReadRows(content string, delimiter rune, skipLines int) ([]Row, error) {
	if skipLines < 0 {
		return nil, fmt.Errorf("%w: negative skip count %d", ErrParse, skipLines)
	}
	rest := strings.TrimPrefix(content, utf8BOM)
	for i := 0; i < skipLines; i++ {
		_, after, found := strings.Cut(rest, "\n")
		if !found {
			return nil, fmt.Errorf("%w: file ends before line %d", ErrParse, skipLines+1)
		}
		rest = after
	}

	headerLine, _, _ := strings.Cut(rest, "\n")
	if strings.TrimSpace(headerLine) == "" {
		return nil, fmt.Errorf("%w: empty header at line %d", ErrParse, skipLines+1)
	}

	cr := csv.NewReader(strings.NewReader(rest))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrParse, err)
	}
	for i := range header {
		if strings.Contains(header[i], "\n") {
			return nil, fmt.Errorf("%w: line %d: unterminated quote in header", ErrParse, skipLines+1)
		}
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if isBlank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)
		for i, f := range rec {
			if strings.Contains(f, "\n") {
				start, _ := cr.FieldPos(i)
				return nil, fmt.Errorf("%w: line %d: unterminated quote in field %d", ErrParse, start+skipLines, i+1)
			}
		}
		fields := make(RawRow, len(header))
		for i, name := range header {
			if i < len(rec) {
				fields[name] = rec[i]
			} else {
				fields[name] = ""
			}
		}
		rows = append(rows, Row{Line: line + skipLines, Fields: fields})
	}
	return rows, nil
}

// isBlank reports whether a record carries nothing but whitespace, e.g. a line
// of bare delimiters.
func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
