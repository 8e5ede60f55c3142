package ingest

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Unicode whitespace: ASCII space and controls (including \v and the 0x1C-0x1F
// separators), NEL and the Z category.
var whitespaceRun = regexp.MustCompile(`[\s\v\x1c-\x1f\x{85}\p{Z}]{2,}`)

// CollapseWhitespace replaces every run of two or more whitespace characters with one space.
func CollapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}

// extractPDF returns the visible text of a PDF with layout whitespace collapsed.
func extractPDF(content []byte) (text string, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = newError(KindContentExtraction, "malformed pdf", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", newError(KindContentExtraction, "open pdf", err)
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", newError(KindContentExtraction, fmt.Sprintf("page %d", i), err)
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(pageText)
	}

	return CollapseWhitespace(sb.String()), nil
}
