// Package catalog loads the tariff-code reference catalog from tabular files
// and keeps the in-process catalog cache fresh when the source file changes.
package catalog

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
)

// Column headers recognized in catalog CSV files.  Matching is
// case-insensitive; unknown columns are ignored.
const (
	columnCode        = "code"
	columnDescription = "description"
	columnHeading     = "heading_description"
)

// ParseCSV reads catalog rows from CSV data.  The first row must be a header
// naming at least the code and description columns.  Rows with an empty code
// are skipped — the in-process cache drops them anyway, skipping them here
// keeps import counts honest.
func ParseCSV(r io.Reader) ([]classify.ReferenceEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeCatalogEmpty, "catalog file is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, "failed to read catalog header")
	}

	codeIdx, descIdx, headIdx := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case columnCode:
			codeIdx = i
		case columnDescription:
			descIdx = i
		case columnHeading:
			headIdx = i
		}
	}
	if codeIdx < 0 || descIdx < 0 {
		return nil, errors.New(errors.ErrCodeCatalogLoadFailed,
			"catalog header must contain code and description columns")
	}

	var entries []classify.ReferenceEntry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, "failed to read catalog row")
		}
		entry := classify.ReferenceEntry{Code: strings.TrimSpace(field(record, codeIdx))}
		if entry.Code == "" {
			continue
		}
		entry.Description = field(record, descIdx)
		entry.HeadingDescription = field(record, headIdx)
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeCatalogEmpty, "catalog file has no usable rows")
	}
	return entries, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// FileLoader returns a classify.CatalogLoader that re-reads the CSV file on
// every invocation; combined with the cache's Invalidate it gives cheap
// hot-reload of the reference data.
func FileLoader(path string) classify.CatalogLoader {
	return func(ctx context.Context) ([]classify.ReferenceEntry, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, "failed to open catalog file")
		}
		defer f.Close()
		return ParseCSV(f)
	}
}

//Personal.AI order the ending
