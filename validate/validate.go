// Command validate provides a small CLI that validates question dataset TSV
// files in the ../datasets directory. It checks:
//   - TSV structure (header row, type column, consistent parsing)
//   - Question rows: non-empty prompts, at least two options, answer in range
//   - Theme coverage: how many board sides the dataset can populate
//   - Milestone quiz banks: every populated theme needs exam questions
//   - Core and mishap pools
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scienceboard/scienceboard/game/questionset"
	"github.com/scienceboard/scienceboard/game/tsv"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateDataset loads and validates a single TSV dataset file. It performs
// per-row checks and then builds the board sides to verify theme coverage.
func validateDataset(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	rows := tsv.Parse(string(data))

	counts := map[string]int{}
	for i, row := range rows {
		// Row numbers are 1-based and skip the header
		line := i + 2
		rowType := row.Type()
		counts[rowType]++

		switch rowType {
		case "property", "milestone", "core":
			appendRowErrors(&result, line, row)
		case "mishap":
			if strings.TrimSpace(row.Get("question")) == "" {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: mishap has no message", line))
			}
		case "":
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: missing type", line))
		default:
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: unknown type %q", line, rowType))
		}
	}

	questionRows := counts["property"] + counts["milestone"] + counts["core"]
	if questionRows == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "No question rows (property, milestone, or core)")
	}

	// Build the board sides to verify theme coverage
	qs := questionset.Build(rows, questionset.Filter{})
	themes := []string{}
	missingQuiz := []string{}
	for _, side := range qs.Sides {
		if side == nil {
			continue
		}
		themes = append(themes, side.Name)
		if len(side.Quiz) == 0 {
			missingQuiz = append(missingQuiz, side.Name)
		}
	}

	if len(themes) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "No themes found: board would be empty")
	}

	for _, theme := range missingQuiz {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Theme %q has no milestone quiz questions", theme))
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Rows: %d", len(rows)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Themes (%d/4): %s", len(themes), strings.Join(themes, ", ")))
		if len(themes) < 4 {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Note: only %d of 4 board sides will be populated", len(themes)))
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Core questions: %d", len(qs.Core.Questions)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Mishap cards: %d", counts["mishap"]))
	}

	return result
}

// appendRowErrors validates one question row in place.
func appendRowErrors(result *ValidationResult, line int, row tsv.Row) {
	q := tsv.RowToQuestion(row)

	if strings.TrimSpace(q.Prompt) == "" {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: empty question prompt", line))
	}

	if len(q.Options) < 2 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: needs at least 2 options, got %d", line, len(q.Options)))
	}

	if q.Answer == nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: correctIndex missing or out of range (1-%d)", line, len(q.Options)))
	}

	if row.Type() == "property" && strings.TrimSpace(row.Get("theme")) == "" {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: property has no theme", line))
	}
}

// main scans ../datasets for *.tsv files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	datasetDir := "../datasets"
	if len(os.Args) > 1 {
		datasetDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(datasetDir, "*.tsv"))
	if err != nil {
		fmt.Printf("Error finding dataset files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateDataset(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All datasets are valid!")
	} else {
		fmt.Println("❌ Some datasets have errors")
		os.Exit(1)
	}
}
