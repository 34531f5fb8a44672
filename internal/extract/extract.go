// Package extract pulls plain text out of uploaded project documents so the
// quoting prompt can quote their contents. Formats without a text extractor
// are still accepted as attachments; they just contribute no excerpt.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// MaxExcerpt bounds the text taken from any one document. Prompts carry at
// most this many bytes per file.
const MaxExcerpt = 4000

// Result is the outcome of extracting one document.
type Result struct {
	Name    string
	Text    string
	Partial bool // text was truncated to MaxExcerpt
}

// Supported reports whether a filename has a text extractor.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".csv", ".md", ".xlsx", ".xlsm":
		return true
	}
	return false
}

// Text extracts a plain-text excerpt from the document. Unsupported formats
// return an empty excerpt with no error.
func Text(name string, data []byte) (Result, error) {
	res := Result{Name: name}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".csv", ".md":
		if !utf8.Valid(data) {
			return res, fmt.Errorf("extract: %s is not valid UTF-8 text", name)
		}
		res.Text, res.Partial = clamp(string(data))
	case ".xlsx", ".xlsm":
		text, err := sheetText(data)
		if err != nil {
			return res, fmt.Errorf("extract: %s: %w", name, err)
		}
		res.Text, res.Partial = clamp(text)
	}
	return res, nil
}

// sheetText flattens every sheet into tab-separated lines, one per row,
// prefixed with the sheet name.
func sheetText(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(&b, "[%s]\n", sheet)
		for _, row := range rows {
			line := strings.TrimRight(strings.Join(row, "\t"), "\t")
			if strings.TrimSpace(line) == "" {
				continue
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
		if b.Len() > MaxExcerpt {
			break
		}
	}
	return b.String(), nil
}

// clamp truncates on a rune boundary at MaxExcerpt.
func clamp(s string) (string, bool) {
	if len(s) <= MaxExcerpt {
		return s, false
	}
	cut := MaxExcerpt
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}
