// Command analyze prints quick, human-readable statistics about question
// dataset TSV files. It summarizes row counts by type, theme and sub-theme
// coverage, answer-key distribution, and can render the board a dataset
// would produce.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	cli "github.com/urfave/cli/v3"

	"github.com/scienceboard/scienceboard/game/board"
	"github.com/scienceboard/scienceboard/game/questionset"
	"github.com/scienceboard/scienceboard/game/tsv"
)

// ThemeStats aggregates the per-theme question inventory.
type ThemeStats struct {
	Name       string
	Subthemes  map[string]int
	Properties int
	Quiz       int
}

// DatasetStats is the computed summary for one dataset file.
type DatasetStats struct {
	Rows       int
	ByType     map[string]int
	Themes     []ThemeStats
	Core       int
	Mishaps    int
	AnswerDist map[int]int // zero-based answer index -> count
	NoAnswer   int
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp builds the CLI command tree.
func newApp() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Inspect question dataset TSV files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dataset-dir",
				Value: "datasets",
				Usage: "Directory containing dataset TSV files",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "stats",
				Usage:     "Print question inventory statistics for each dataset",
				ArgsUsage: "[dataset files...]",
				Action:    runStats,
			},
			{
				Name:      "board",
				Usage:     "Render the board a dataset would produce",
				ArgsUsage: "<dataset file>",
				Action:    runBoard,
			},
		},
	}
}

// runStats analyzes either the named files or every TSV under dataset-dir.
func runStats(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		var err error
		files, err = filepath.Glob(filepath.Join(cmd.String("dataset-dir"), "*.tsv"))
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no datasets found in %s", cmd.String("dataset-dir"))
		}
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		if err := analyzeDataset(file, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}

	return nil
}

// runBoard renders the tile loop one dataset would build.
func runBoard(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("board requires exactly one dataset file")
	}

	return renderBoard(cmd.Args().First(), os.Stdout)
}

// analyzeDataset computes and prints the statistics for one dataset file.
func analyzeDataset(path string, w io.Writer) error {
	rows, err := loadRows(path)
	if err != nil {
		return err
	}

	stats := computeStats(rows)

	fmt.Fprintf(w, "Rows: %d\n", stats.Rows)

	types := make([]string, 0, len(stats.ByType))
	for t := range stats.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(w, "  %s: %d\n", t, stats.ByType[t])
	}

	fmt.Fprintf(w, "Themes: %d/4 board sides\n", len(stats.Themes))
	for _, theme := range stats.Themes {
		subs := make([]string, 0, len(theme.Subthemes))
		for s, n := range theme.Subthemes {
			subs = append(subs, fmt.Sprintf("%s (%d)", s, n))
		}
		sort.Strings(subs)
		fmt.Fprintf(w, "  %s: %d property questions, %d quiz questions\n",
			theme.Name, theme.Properties, theme.Quiz)
		if len(subs) > 0 {
			fmt.Fprintf(w, "    sub-themes: %s\n", strings.Join(subs, ", "))
		}
		if theme.Quiz == 0 {
			fmt.Fprintf(w, "    ⚠️  WARNING: no milestone quiz questions for this theme\n")
		}
	}

	fmt.Fprintf(w, "Core questions: %d\n", stats.Core)
	fmt.Fprintf(w, "Mishap cards: %d\n", stats.Mishaps)

	// Answer-key balance matters: a dataset answered mostly by option 1
	// is guessable without reading the question
	if len(stats.AnswerDist) > 0 {
		indexes := make([]int, 0, len(stats.AnswerDist))
		for i := range stats.AnswerDist {
			indexes = append(indexes, i)
		}
		sort.Ints(indexes)
		parts := make([]string, 0, len(indexes))
		for _, i := range indexes {
			parts = append(parts, fmt.Sprintf("option%d: %d", i+1, stats.AnswerDist[i]))
		}
		fmt.Fprintf(w, "Answer distribution: %s\n", strings.Join(parts, ", "))
	}
	if stats.NoAnswer > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d question rows have no valid correctIndex\n", stats.NoAnswer)
	}

	return nil
}

// computeStats aggregates row counts, theme coverage, and answer balance.
func computeStats(rows []tsv.Row) DatasetStats {
	stats := DatasetStats{
		Rows:       len(rows),
		ByType:     map[string]int{},
		AnswerDist: map[int]int{},
	}

	themeIndex := map[string]int{}

	for _, row := range rows {
		rowType := row.Type()
		stats.ByType[rowType]++

		switch rowType {
		case "property", "milestone":
			theme := strings.TrimSpace(row.Get("theme"))
			if theme == "" {
				theme = "(none)"
			}
			idx, ok := themeIndex[theme]
			if !ok {
				idx = len(stats.Themes)
				themeIndex[theme] = idx
				stats.Themes = append(stats.Themes, ThemeStats{
					Name:      theme,
					Subthemes: map[string]int{},
				})
			}
			if rowType == "property" {
				stats.Themes[idx].Properties++
				sub := strings.TrimSpace(row.Get("subtheme"))
				if sub == "" {
					sub = "(none)"
				}
				stats.Themes[idx].Subthemes[sub]++
			} else {
				stats.Themes[idx].Quiz++
			}
			countAnswer(&stats, row)
		case "core":
			stats.Core++
			countAnswer(&stats, row)
		case "mishap":
			stats.Mishaps++
		}
	}

	return stats
}

func countAnswer(stats *DatasetStats, row tsv.Row) {
	q := tsv.RowToQuestion(row)
	if q.Answer == nil {
		stats.NoAnswer++
		return
	}
	stats.AnswerDist[*q.Answer]++
}

// renderBoard prints the tile loop the dataset would produce under default
// pricing.
func renderBoard(path string, w io.Writer) error {
	rows, err := loadRows(path)
	if err != nil {
		return err
	}

	qs := questionset.Build(rows, questionset.Filter{})
	tiles := board.Build(qs, board.DefaultPricing())

	fmt.Fprintf(w, "Board: %d tiles\n", len(tiles))
	for _, tile := range tiles {
		marker := " "
		if tile.IsStart {
			marker = "▶"
		}
		switch tile.Type {
		case board.Property:
			fmt.Fprintf(w, "%s %2d. %-30s $%-4d rent $%-4d %s/%s (%d questions)\n",
				marker, tile.ID, tile.Name, tile.Price, tile.BaseRent, tile.Group, tile.Sub, len(tile.Questions))
		case board.Milestone:
			fmt.Fprintf(w, "%s %2d. ★ %-28s $%-4d rent $%-4d (%d quiz questions)\n",
				marker, tile.ID, tile.Name, tile.Price, tile.BaseRent, len(tile.Quiz))
		case board.SequencingCore:
			fmt.Fprintf(w, "%s %2d. %-30s $%-4d rent $%-4d (%d questions)\n",
				marker, tile.ID, tile.Name, tile.Price, tile.BaseRent, len(tile.Questions))
		case board.Chance:
			fmt.Fprintf(w, "%s %2d. ? %s\n", marker, tile.ID, tile.Name)
		}
	}

	return nil
}

func loadRows(path string) ([]tsv.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return tsv.Parse(string(data)), nil
}
