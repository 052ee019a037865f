// Package normalize turns raw keyword-export rows into canonical Keyword
// records. Row-level problems are recovered locally and collected in a
// Report; only a header without a keyword column fails the whole batch.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/contentpeak/opplens/pkg/opplens/internalerr"
	"github.com/contentpeak/opplens/pkg/opplens/keyword"
)

// columns holds the resolved header index of each known field. -1 means the
// export does not carry that column and the field defaults.
type columns struct {
	keyword    int
	volume     int
	difficulty int
	cpc        int
	intents    int
}

// fieldAliases maps each field to the lowercased substrings that identify
// its header cell. Fields are tried in this order for every cell, so
// "Keyword Difficulty" resolves to difficulty before the keyword field can
// claim it.
var fieldAliases = []struct {
	field   string
	aliases []string
}{
	{"difficulty", []string{"difficulty", "kd"}},
	{"volume", []string{"volume", "searches"}},
	{"cpc", []string{"cpc", "cost per click", "cost-per-click"}},
	{"intents", []string{"intent"}},
	{"keyword", []string{"keyword", "query", "term"}},
}

// RowError records one dropped row.
type RowError struct {
	Row    int    // 1-based position in the input rows
	Reason string
}

// Report summarizes a normalization pass. RowsKept+RowsDropped always
// equals RowsTotal, and len(Errors) equals RowsDropped.
type Report struct {
	RowsTotal   int
	RowsKept    int
	RowsDropped int
	Errors      []RowError
}

// Normalize converts raw tab-split rows into Keyword records using the
// header to locate columns. Header cells are matched case-insensitively by
// substring against known aliases. Rows with the wrong field count or an
// empty keyword cell are dropped and recorded; unparsable numeric cells
// default to 0 with the row kept. A header without any keyword column makes
// the whole batch fail with internalerr.ErrMissingKeywordColumn.
func Normalize(header []string, rows [][]string) ([]keyword.Keyword, Report, error) {
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, Report{}, err
	}

	report := Report{RowsTotal: len(rows)}
	keywords := make([]keyword.Keyword, 0, len(rows))

	for i, row := range rows {
		if len(row) != len(header) {
			report.drop(i+1, fmt.Sprintf("expected %d fields, got %d", len(header), len(row)))
			continue
		}

		text := cleanText(row[cols.keyword])
		if text == "" {
			report.drop(i+1, "empty keyword text")
			continue
		}

		rawIntents := "unknown"
		if cols.intents >= 0 {
			if cell := strings.TrimSpace(row[cols.intents]); cell != "" {
				rawIntents = cell
			}
		}

		keywords = append(keywords, keyword.Keyword{
			Text:         text,
			SearchVolume: parseVolume(cell(row, cols.volume)),
			Difficulty:   parseDifficulty(cell(row, cols.difficulty)),
			CPC:          parseCPC(cell(row, cols.cpc)),
			RawIntents:   rawIntents,
			Intent:       primaryIntent(rawIntents),
		})
		report.RowsKept++
	}

	return keywords, report, nil
}

func (r *Report) drop(row int, reason string) {
	r.RowsDropped++
	r.Errors = append(r.Errors, RowError{Row: row, Reason: reason})
}

// resolveColumns locates each field's column. Every header cell is claimed
// by at most one field; the first cell matching a field wins for that field.
func resolveColumns(header []string) (columns, error) {
	cols := columns{keyword: -1, volume: -1, difficulty: -1, cpc: -1, intents: -1}

	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name == "" {
			continue
		}

		for _, fa := range fieldAliases {
			if !matchesAlias(name, fa.aliases) {
				continue
			}
			switch fa.field {
			case "keyword":
				if cols.keyword < 0 {
					cols.keyword = i
				}
			case "volume":
				if cols.volume < 0 {
					cols.volume = i
				}
			case "difficulty":
				if cols.difficulty < 0 {
					cols.difficulty = i
				}
			case "cpc":
				if cols.cpc < 0 {
					cols.cpc = i
				}
			case "intents":
				if cols.intents < 0 {
					cols.intents = i
				}
			}
			break
		}
	}

	if cols.keyword < 0 {
		return cols, internalerr.ErrMissingKeywordColumn
	}

	return cols, nil
}

func matchesAlias(name string, aliases []string) bool {
	for _, a := range aliases {
		if strings.Contains(name, a) {
			return true
		}
	}
	return false
}

// cell returns the value at idx, or "" when the column is absent.
func cell(row []string, idx int) string {
	if idx < 0 {
		return ""
	}
	return row[idx]
}

// cleanText trims the keyword cell and collapses internal whitespace runs.
// Case is preserved; downstream passes lowercase where they need to.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// primaryIntent maps the first comma-separated intent tag to the enum.
func primaryIntent(rawIntents string) keyword.Intent {
	first, _, _ := strings.Cut(rawIntents, ",")
	return keyword.ParseIntent(first)
}

// parseVolume reads a search-volume cell. Separator commas are tolerated;
// unparsable or negative values become 0.
func parseVolume(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		n = int(f)
	}

	if n < 0 {
		return 0
	}
	return n
}

// parseDifficulty reads a difficulty cell and clamps it into 0-100.
func parseDifficulty(s string) float64 {
	d := parseNumber(s, "%")
	if d < 0 {
		return 0
	}
	if d > 100 {
		return 100
	}
	return d
}

// parseCPC reads a cost-per-click cell; negative values become 0.
func parseCPC(s string) float64 {
	c := parseNumber(s, "$")
	if c < 0 {
		return 0
	}
	return c
}

// parseNumber strips separator commas and the given unit symbol, then
// parses a float. Unparsable cells yield 0.
func parseNumber(s, unit string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, unit)
	s = strings.TrimSuffix(s, unit)
	if s == "" {
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
