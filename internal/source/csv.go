package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/username/date-calendar/internal/calendar"
)

// CSVSource reads dates from a delimited file. Every non-empty cell of every
// row is a date in the configured layout.
type CSVSource struct {
	filePath string
	layout   string
	logger   *zap.Logger
}

// NewCSVSource creates a new CSVSource instance
func NewCSVSource(filePath, layout string, logger *zap.Logger) *CSVSource {
	return &CSVSource{
		filePath: filePath,
		layout:   layout,
		logger:   logger,
	}
}

// Dates parses the whole file. Nothing is returned if any cell fails to parse.
func (s *CSVSource) Dates(ctx context.Context) ([]calendar.Date, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dates file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read dates file %s: %w", s.filePath, err)
	}

	var dates []calendar.Date
	for i, row := range rows {
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			d, err := calendar.Parse(s.layout, cell)
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %d: failed to parse date '%s': %w",
					s.filePath, i+1, j+1, cell, err)
			}
			dates = append(dates, d)
		}
	}

	s.logger.Info("Dates loaded from file",
		zap.String("file", s.filePath),
		zap.Int("dates", len(dates)))

	return dates, nil
}
