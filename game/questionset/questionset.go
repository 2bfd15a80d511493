// Package questionset turns normalized TSV rows into the per-topic question
// set structure the board builder consumes: up to four themed sides (each with
// two sub-theme question pools and a milestone quiz bank) plus a shared core
// facility pool.
package questionset

import (
	"strings"

	"github.com/scienceboard/scienceboard/game/tsv"
)

// Filter selects rows for a single game: a big topic and a module. A row with
// an empty bigTopic (or module) field is a wildcard and matches everything.
type Filter struct {
	BigTopic string `json:"big_topic"`
	Module   string `json:"module"`
}

// SubTheme is a named pool of property questions sharing one price tier.
type SubTheme struct {
	Name      string         `json:"name"`
	Questions []tsv.Question `json:"questions"`
}

// Side is one quarter of the board loop, derived from one TSV theme.
type Side struct {
	Name string         `json:"name"`
	Sub1 SubTheme       `json:"sub1"`
	Sub2 SubTheme       `json:"sub2"`
	Quiz []tsv.Question `json:"quiz"`
}

// Core is the shared sequencing-core question pool used by all four sides.
type Core struct {
	Name      string         `json:"name"`
	Questions []tsv.Question `json:"questions"`
}

// QuestionSet is the intermediate structure between the TSV dataset and the
// board. Sides beyond the dataset's theme count are nil; the board builder
// treats a nil side as "omit this side's interior tiles".
type QuestionSet struct {
	Core  Core     `json:"core"`
	Sides [4]*Side `json:"sides"`
}

// DefaultCoreName labels the core facility when the dataset carries no core
// rows naming one.
const DefaultCoreName = "Core Facility"

// Matches reports whether a row belongs to the given topic/module selection.
// Both fields must match; an empty list field on the row is a wildcard.
func Matches(row tsv.Row, f Filter) bool {
	if f.BigTopic != "" {
		if raw := strings.TrimSpace(row.Get("bigTopic")); raw != "" {
			if !contains(tsv.ParseList(raw), f.BigTopic) {
				return false
			}
		}
	}
	if f.Module != "" {
		if raw := strings.TrimSpace(row.Get("module")); raw != "" {
			if !contains(tsv.ParseList(raw), f.Module) {
				return false
			}
		}
	}
	return true
}

// Build assembles the QuestionSet for a topic/module selection.
//
// Themes are ordered by first appearance among property/milestone rows and
// only the first four become sides; excess themes are dropped.
// Within a theme, the first two distinct non-empty subthemes (property rows
// only) name sub1 and sub2; a single subtheme serves both slots and a theme
// with none gets synthetic names. Property rows with a blank subtheme default
// to sub1. Milestone rows form the side's quiz bank, and core rows pool
// globally regardless of theme.
func Build(rows []tsv.Row, f Filter) *QuestionSet {
	var matched []tsv.Row
	for _, r := range rows {
		if Matches(r, f) {
			matched = append(matched, r)
		}
	}

	qs := &QuestionSet{Core: Core{Name: DefaultCoreName}}
	if len(matched) == 0 {
		return qs
	}

	var themeOrder []string
	for _, r := range matched {
		if t := r.Type(); t != "property" && t != "milestone" {
			continue
		}
		theme := strings.TrimSpace(r.Get("theme"))
		if theme == "" || contains(themeOrder, theme) {
			continue
		}
		themeOrder = append(themeOrder, theme)
	}
	if len(themeOrder) > 4 {
		themeOrder = themeOrder[:4]
	}

	for i, theme := range themeOrder {
		qs.Sides[i] = buildSide(matched, theme)
	}

	var coreQuestions []tsv.Question
	coreName := ""
	for _, r := range matched {
		if r.Type() != "core" {
			continue
		}
		if coreName == "" {
			if st := strings.TrimSpace(r.Get("subtheme")); st != "" {
				coreName = st
			} else if th := strings.TrimSpace(r.Get("theme")); th != "" {
				coreName = th
			}
		}
		coreQuestions = append(coreQuestions, tsv.RowToQuestion(r))
	}
	if coreName != "" {
		qs.Core.Name = coreName
	}
	qs.Core.Questions = coreQuestions

	return qs
}

func buildSide(rows []tsv.Row, theme string) *Side {
	var propRows, milestoneRows []tsv.Row
	for _, r := range rows {
		if strings.TrimSpace(r.Get("theme")) != theme {
			continue
		}
		switch r.Type() {
		case "property":
			propRows = append(propRows, r)
		case "milestone":
			milestoneRows = append(milestoneRows, r)
		}
	}

	var subOrder []string
	for _, r := range propRows {
		st := strings.TrimSpace(r.Get("subtheme"))
		if st == "" || contains(subOrder, st) {
			continue
		}
		subOrder = append(subOrder, st)
	}

	sub1Name := theme + " A"
	sub2Name := theme + " B"
	if len(subOrder) > 0 {
		sub1Name = subOrder[0]
		sub2Name = subOrder[0]
	}
	if len(subOrder) > 1 {
		sub2Name = subOrder[1]
	}

	side := &Side{
		Name: theme,
		Sub1: SubTheme{Name: sub1Name},
		Sub2: SubTheme{Name: sub2Name},
	}

	for _, r := range propRows {
		st := strings.TrimSpace(r.Get("subtheme"))
		if st == "" {
			st = sub1Name
		}
		q := tsv.RowToQuestion(r)
		if st == sub1Name {
			side.Sub1.Questions = append(side.Sub1.Questions, q)
		}
		if st == sub2Name {
			side.Sub2.Questions = append(side.Sub2.Questions, q)
		}
	}

	for _, r := range milestoneRows {
		side.Quiz = append(side.Quiz, tsv.RowToQuestion(r))
	}

	return side
}

// Mishap is a random chance-tile event sourced from dataset "mishap" rows.
type Mishap struct {
	Message string `json:"message"`
	Fact    string `json:"fact,omitempty"`
}

// Mishaps extracts the chance-tile event pool from the dataset. The engine
// falls back to a built-in pool when the dataset has none.
func Mishaps(rows []tsv.Row) []Mishap {
	var out []Mishap
	for _, r := range rows {
		if r.Type() != "mishap" {
			continue
		}
		out = append(out, Mishap{Message: r.Get("question"), Fact: r.Get("explanation")})
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
