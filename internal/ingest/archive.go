package ingest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"math"

	"docingest/internal/model"
)

// walkArchive dispatches every file entry of a zip container in directory
// order. Any failure discards the records gathered so far.
func (w *walk) walkArchive(data []byte, depth int) ([]model.Record, error) {
	if depth > w.p.limits.MaxDepth {
		return nil, newError(KindArchiveLimitExceeded,
			fmt.Sprintf("archive nesting exceeds %d levels", w.p.limits.MaxDepth), nil)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, newError(KindArchive, "open archive", err)
	}

	var result []model.Record
	for _, f := range zr.File {
		if err := w.ctx.Err(); err != nil {
			return nil, err
		}
		if f.FileInfo().IsDir() {
			continue
		}

		w.entries++
		if w.entries > w.p.limits.MaxEntries {
			return nil, newError(KindArchiveLimitExceeded,
				fmt.Sprintf("more than %d archive entries", w.p.limits.MaxEntries), nil)
		}

		content, err := w.readEntry(f)
		if err != nil {
			return nil, err
		}

		name, ext := SplitName(f.Name)
		w.p.logger.Debug("dispatching archive entry", "entry", f.Name, "depth", depth, "bytes", len(content))
		records, err := w.dispatch(content, name, ext, depth)
		if err != nil {
			return nil, fmt.Errorf("archive entry %q: %w", f.Name, err)
		}
		result = append(result, records...)
	}
	if result == nil {
		result = make([]model.Record, 0)
	}
	return result, nil
}

// readEntry reads one entry, charging its size against the byte budget.
func (w *walk) readEntry(f *zip.File) ([]byte, error) {
	remaining := w.p.limits.MaxTotalBytes - w.total
	if f.UncompressedSize64 > uint64(remaining) {
		return nil, w.byteLimitError()
	}

	rc, err := f.Open()
	if err != nil {
		return nil, newError(KindArchive, fmt.Sprintf("open entry %q", f.Name), err)
	}
	defer rc.Close()

	// Headers can lie about size, so never read past the budget. One extra
	// byte detects overflow; skip it when the budget is already MaxInt64.
	limit := remaining
	if limit < math.MaxInt64 {
		limit++
	}
	content, err := io.ReadAll(io.LimitReader(rc, limit))
	if err != nil {
		return nil, newError(KindArchive, fmt.Sprintf("read entry %q", f.Name), err)
	}
	if int64(len(content)) > remaining {
		return nil, w.byteLimitError()
	}
	w.total += int64(len(content))
	return content, nil
}

func (w *walk) byteLimitError() error {
	return newError(KindArchiveLimitExceeded,
		fmt.Sprintf("decompressed size exceeds %d bytes", w.p.limits.MaxTotalBytes), nil)
}
