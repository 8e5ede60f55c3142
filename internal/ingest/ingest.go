package ingest

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"docingest/internal/model"
)

var tracer = otel.Tracer("docingest/internal/ingest")

// SplitName splits a file path into its name without the final extension and
// that extension. Dot files such as ".env" have no extension.
func SplitName(filename string) (name, ext string) {
	ext = path.Ext(filename)
	if ext == path.Base(filename) {
		return filename, ""
	}
	return strings.TrimSuffix(filename, ext), ext
}

// Ingest reads one uploaded file fully and returns the records extracted from it.
// filename is the name supplied by the client; only its last path element is used.
func (p *Pipeline) Ingest(ctx context.Context, filename string, r io.Reader) ([]model.Record, error) {
	ctx, span := tracer.Start(ctx, "ingest.file")
	defer span.End()

	start := time.Now()
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	name, ext := SplitName(base)
	span.SetAttributes(
		attribute.String("ingest.filename", base),
		attribute.String("ingest.extension", ext),
	)

	records, err := p.ingest(ctx, r, name, ext)
	if err != nil {
		p.metrics.observeFailure(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "ingest failed")
		p.logger.Warn("file rejected", "filename", base, "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("ingest.records", len(records)))
	p.logger.Info("file ingested",
		"filename", base,
		"records", len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return records, nil
}

func (p *Pipeline) ingest(ctx context.Context, r io.Reader, name, ext string) ([]model.Record, error) {
	if r == nil {
		return nil, ErrNilReader
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return p.Dispatch(ctx, data, name, ext)
}
