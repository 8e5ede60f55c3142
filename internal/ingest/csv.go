package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"

	"docingest/internal/model"
)

const (
	tableDelimiter = ';'
	tagSeparator   = ","

	columnText = "text"
	columnName = "name"
	columnTag  = "tag"
)

// tableColumns holds header positions; -1 marks an absent optional column.
type tableColumns struct {
	text int
	name int
	tag  int
}

func findColumns(fold cases.Caser, header []string) (tableColumns, error) {
	cols := tableColumns{text: -1, name: -1, tag: -1}
	for i, h := range header {
		switch NormalizeTag(fold, h) {
		case columnText:
			if cols.text < 0 {
				cols.text = i
			}
		case columnName:
			if cols.name < 0 {
				cols.name = i
			}
		case columnTag:
			if cols.tag < 0 {
				cols.tag = i
			}
		}
	}
	if cols.text < 0 {
		return cols, MissingColumn(columnText)
	}
	return cols, nil
}

// extractTable parses a ';'-delimited table with a header row into one record per data row.
func extractTable(content []byte, baseName string) ([]model.Record, error) {
	text, err := decodeText(content)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = tableDelimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable field counts

	fold := cases.Fold()
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, MissingColumn(columnText)
	}
	if err != nil {
		return nil, newError(KindContentExtraction, "malformed csv header", err)
	}
	cols, err := findColumns(fold, header)
	if err != nil {
		return nil, err
	}

	records := make([]model.Record, 0)
	for idx := 1; ; idx++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newError(KindContentExtraction, fmt.Sprintf("malformed csv row %d", idx), err)
		}
		if cols.text >= len(row) {
			return nil, MissingColumn(columnText)
		}

		name := fmt.Sprintf("%s_%d", baseName, idx)
		if cols.name >= 0 && cols.name < len(row) && row[cols.name] != "" {
			name = row[cols.name]
		}

		records = append(records, NewRecord(row[cols.text], name, rowTags(row, cols.tag)))
	}
	return records, nil
}

// rowTags splits the tag cell. An absent column, a short row, or a blank cell
// all yield no tags.
func rowTags(row []string, col int) []string {
	if col < 0 || col >= len(row) {
		return nil
	}
	cell := row[col]
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	return strings.Split(cell, tagSeparator)
}
