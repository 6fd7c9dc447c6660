// Package store implements the repository layer: per-entity in-memory
// collections synchronized wholesale with flat comma-delimited files.
// Load replaces in-memory state entirely and tolerates a missing file;
// Save rewrites the file from scratch. There is no partial write path.
package store

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/stockd/stockd/internal/domain"
)

const dateLayout = "2006-01-02"

// readRecords reads every row of the file into T records. A missing or
// empty file is an empty dataset, not an error.
func readRecords[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(domain.ErrStorage, "read %s: %v", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var rows []T
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, errors.Wrapf(domain.ErrStorage, "decode %s: %v", path, err)
	}
	return rows, nil
}

// writeRecords rewrites the file wholesale from the given records.
func writeRecords[T any](path string, rows []T) error {
	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return errors.Wrapf(domain.ErrStorage, "encode %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return errors.Wrapf(domain.ErrStorage, "write %s: %v", path, err)
	}
	return nil
}

// Monetary values serialize with zero decimal places.
func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}

func parseMoney(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return cast.ToFloat64E(strings.TrimSpace(s))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, strings.TrimSpace(s))
}
