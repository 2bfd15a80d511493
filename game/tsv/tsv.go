package tsv

import (
	"strconv"
	"strings"
)

// Row is a single TSV record: a mapping from header column name to the
// trimmed, unquoted cell value. Absent columns read as empty strings.
type Row map[string]string

// Get returns the value for the given column, or "" if the column is absent.
func (r Row) Get(key string) string {
	return r[key]
}

// Type returns the normalized (trimmed, lowercased) row type.
func (r Row) Type() string {
	return strings.ToLower(strings.TrimSpace(r["type"]))
}

// Parse converts raw TSV text into a sequence of rows.
//
// Line endings are normalized, blank lines and '#' comment lines are dropped,
// and the first surviving line is taken as the header. Each data line is
// tab-split and zipped with the header; missing trailing columns yield empty
// strings, so malformed rows degrade instead of being rejected. Cell values
// wrapped in a single pair of double quotes are unwrapped, with internal ""
// collapsed to ". Fewer than two surviving lines yields an empty result.
func Parse(text string) []Row {
	clean := strings.ReplaceAll(text, "\r\n", "\n")
	clean = strings.ReplaceAll(clean, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(clean, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) < 2 {
		return nil
	}

	headers := strings.Split(lines[0], "\t")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		cols := strings.Split(line, "\t")
		row := make(Row, len(headers))
		for i, h := range headers {
			var val string
			if i < len(cols) {
				val = strings.TrimSpace(cols[i])
			}
			if len(val) >= 2 && strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`) {
				val = strings.ReplaceAll(val[1:len(val)-1], `""`, `"`)
			}
			row[h] = val
		}
		rows = append(rows, row)
	}
	return rows
}

// ParseList splits a comma-separated multi-value field into trimmed tokens,
// stripping one leading and one trailing quote character per token.
func ParseList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.TrimPrefix(p, `"`)
		p = strings.TrimSuffix(p, `"`)
		out = append(out, p)
	}
	return out
}

// Question is the internal quiz question format consumed by the game engine.
type Question struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Answer      *int     `json:"answer"` // zero-based index into Options, nil = no valid answer
	Explanation string   `json:"explanation"`
	Theme       string   `json:"theme"`
	Subtheme    string   `json:"subtheme"`
	Image       string   `json:"image,omitempty"`
}

// RowToQuestion converts a TSV question row into a Question.
//
// Options are the non-empty option1..option4 values in order. The answer is
// correctIndex-1 when correctIndex parses as an integer; an index that falls
// outside the options range is clamped to nil rather than carried through as
// an index that can never match.
func RowToQuestion(row Row) Question {
	var options []string
	for _, key := range []string{"option1", "option2", "option3", "option4"} {
		if v := row.Get(key); v != "" {
			options = append(options, v)
		}
	}

	var answer *int
	if raw := strings.TrimSpace(row.Get("correctIndex")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			idx := parsed - 1
			if idx >= 0 && idx < len(options) {
				answer = &idx
			}
		}
	}

	return Question{
		Prompt:      row.Get("question"),
		Options:     options,
		Answer:      answer,
		Explanation: row.Get("explanation"),
		Theme:       strings.TrimSpace(row.Get("theme")),
		Subtheme:    strings.TrimSpace(row.Get("subtheme")),
		Image:       row.Get("imageFile"),
	}
}
