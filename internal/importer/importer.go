// Package importer loads expenses in bulk from CSV exports.
//
// The expected layout is date,amount,description,category_name with one
// header row. Categories are resolved (or created) in a first pass over the
// file, expenses are written in a second one.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/logger"
	"spendbook/internal/metrics"
	"spendbook/internal/services"
)

const (
	colDate = iota
	colAmount
	colDescription
	colCategory
	minColumns
)

const (
	dateLayout    = "2006-01-02"
	progressEvery = 100
)

// Result summarizes one import run.
type Result struct {
	Categories        int
	CategoriesCreated int
	Imported          int
	Skipped           int
}

// Importer writes CSV rows through the regular services so every row gets
// the same validation as an API write.
type Importer struct {
	categories services.CategoryServicer
	expenses   services.ExpenseServicer
	audit      services.AuditServicer
	metrics    *metrics.Metrics
}

// New creates an Importer. m may be nil.
func New(categories services.CategoryServicer, expenses services.ExpenseServicer, audit services.AuditServicer, m *metrics.Metrics) *Importer {
	return &Importer{categories: categories, expenses: expenses, audit: audit, metrics: m}
}

// Import reads the file twice: once to create categories and once to create
// expenses. There is no wrapping transaction, a failure midway leaves the
// rows written so far in place.
func (imp *Importer) Import(r io.ReadSeeker) (*Result, error) {
	log := logger.Named("importer")
	log.Info("Starting import")

	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to read file position: %w", err)
	}

	names, err := collectCategoryNames(r)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	categoryIDs := make(map[string]string, len(names))
	for _, name := range names {
		category, created, err := imp.categories.FirstOrCreateCategory(name)
		if err != nil {
			if errors.Is(err, apperrors.ErrInvalidInput) {
				log.Warnw("Skipping invalid category", "name", name, "error", err)
				continue
			}
			return nil, fmt.Errorf("failed to resolve category %q: %w", name, err)
		}
		categoryIDs[name] = category.ID
		result.Categories++
		if created {
			result.CategoriesCreated++
		}
		log.Infof("Category processed: %s", name)
	}

	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}

	reader := newReader(r)
	if _, err := reader.Read(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("line %d: %w", line, err)
		}
		if len(record) < minColumns {
			continue
		}
		categoryID, ok := categoryIDs[strings.TrimSpace(record[colCategory])]
		if !ok {
			continue
		}

		input, err := parseRow(record, categoryID)
		if err != nil {
			log.Warnw("Skipping row", "line", line, "error", err)
			result.Skipped++
			continue
		}

		if _, err := imp.expenses.CreateExpense(input); err != nil {
			if isRowError(err) {
				log.Warnw("Skipping row", "line", line, "error", err)
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("line %d: %w", line, err)
		}

		result.Imported++
		if result.Imported%progressEvery == 0 {
			log.Infof("%d expenses processed...", result.Imported)
		}
	}

	imp.metrics.AddImportedRows("imported", result.Imported)
	imp.metrics.AddImportedRows("skipped", result.Skipped)
	imp.audit.Log(services.AuditImportExpenses, "expense", "", "", map[string]interface{}{
		"categories": result.Categories,
		"imported":   result.Imported,
		"skipped":    result.Skipped,
	})

	log.Infow("Import completed",
		"categories", result.Categories,
		"categories_created", result.CategoriesCreated,
		"imported", result.Imported,
		"skipped", result.Skipped,
	)
	return result, nil
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

// collectCategoryNames returns the distinct non-empty category names in
// first-seen order.
func collectCategoryNames(r io.Reader) ([]string, error) {
	reader := newReader(r)
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(record) <= colCategory {
			continue
		}
		name := strings.TrimSpace(record[colCategory])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
}

func parseRow(record []string, categoryID string) (services.ExpenseInput, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(record[colDate]))
	if err != nil {
		return services.ExpenseInput{}, fmt.Errorf("invalid date %q", record[colDate])
	}
	raw := strings.ReplaceAll(strings.TrimSpace(record[colAmount]), ",", "")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return services.ExpenseInput{}, fmt.Errorf("invalid amount %q", record[colAmount])
	}
	return services.ExpenseInput{
		Amount:      amount,
		Description: record[colDescription],
		Date:        date,
		CategoryID:  categoryID,
	}, nil
}

// isRowError reports whether err rejects the row rather than the run.
func isRowError(err error) bool {
	return errors.Is(err, apperrors.ErrInvalidInput) || errors.Is(err, apperrors.ErrCategoryNotFound)
}
