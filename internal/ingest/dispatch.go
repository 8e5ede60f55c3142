package ingest

import (
	"context"

	"docingest/internal/model"
)

// Format identifies an extraction strategy.
type Format string

const (
	FormatText    Format = "text"
	FormatPDF     Format = "pdf"
	FormatArchive Format = "archive"
	FormatTable   Format = "table"
)

// formats is the closed routing table. Extensions match case-sensitively.
var formats = map[string]Format{
	".txt": FormatText,
	".pdf": FormatPDF,
	".zip": FormatArchive,
	".csv": FormatTable,
}

// DetectFormat maps a file extension (with its leading dot) to a Format.
func DetectFormat(ext string) (Format, error) {
	f, ok := formats[ext]
	if !ok {
		return "", unsupportedFormat(ext)
	}
	return f, nil
}

// SupportedExtensions lists the accepted extensions.
func SupportedExtensions() []string {
	return []string{".txt", ".pdf", ".zip", ".csv"}
}

// Dispatch extracts records from data according to ext. name is the file's
// base name without extension and seeds the record names.
func (p *Pipeline) Dispatch(ctx context.Context, data []byte, name, ext string) ([]model.Record, error) {
	w := &walk{ctx: ctx, p: p}
	return w.dispatch(data, name, ext, 0)
}

// walk carries the budget of one top-level file through recursive dispatch.
type walk struct {
	ctx     context.Context
	p       *Pipeline
	total   int64
	entries int
}

func (w *walk) dispatch(data []byte, name, ext string, depth int) ([]model.Record, error) {
	if err := w.ctx.Err(); err != nil {
		return nil, err
	}
	format, err := DetectFormat(ext)
	if err != nil {
		return nil, err
	}

	var records []model.Record
	switch format {
	case FormatText:
		text, err := decodeText(data)
		if err != nil {
			return nil, err
		}
		records = []model.Record{NewRecord(text, name, nil)}
	case FormatPDF:
		text, err := extractPDF(data)
		if err != nil {
			return nil, err
		}
		records = []model.Record{NewRecord(text, name, nil)}
	case FormatTable:
		records, err = extractTable(data, name)
		if err != nil {
			return nil, err
		}
	case FormatArchive:
		return w.walkArchive(data, depth+1)
	}

	w.p.metrics.observeRecords(format, len(records))
	return records, nil
}
