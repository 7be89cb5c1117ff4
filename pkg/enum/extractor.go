package enum

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ExtractedContent represents text extracted from a binary document.
type ExtractedContent struct {
	Name    string // path within the archive (e.g., "xl/sharedStrings.xml")
	Content []byte // extracted text, one line per paragraph or row
}

// ExtractText extracts text from supported binary documents (xlsx, docx, pdf).
func ExtractText(path string, content []byte) ([]ExtractedContent, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".xlsx":
		return extractZipMembers(content, func(name string) bool {
			return name == "xl/sharedStrings.xml" ||
				(strings.HasPrefix(name, "xl/worksheets/sheet") && strings.HasSuffix(name, ".xml"))
		}, "si", "row")
	case ".docx":
		return extractZipMembers(content, func(name string) bool {
			return name == "word/document.xml"
		}, "p")
	case ".pdf":
		return extractPDF(content)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

// extractZipMembers pulls text out of the XML members of an OOXML package
// selected by want. Each closing element named in lineBreaks ends a line.
func extractZipMembers(content []byte, want func(name string) bool, lineBreaks ...string) ([]ExtractedContent, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open document as zip: %w", err)
	}

	var results []ExtractedContent
	for _, file := range zipReader.File {
		if !want(file.Name) {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		text := extractXMLText(data, lineBreaks...)
		if len(text) > 0 {
			results = append(results, ExtractedContent{
				Name:    file.Name,
				Content: []byte(text),
			})
		}
	}

	return results, nil
}

// extractPDF extracts text from PDF files using ledongthuc/pdf.
func extractPDF(content []byte) ([]ExtractedContent, error) {
	// ledongthuc/pdf wants a file path, so spill to a temp file
	tmpFile, err := os.CreateTemp("", "chunkpos-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	tmpFile.Close()

	f, r, err := pdf.Open(tmpFile.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var text strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Continue on error to extract what we can
			continue
		}

		text.WriteString(pageText)
		text.WriteString("\n")
	}

	extracted := text.String()
	if len(strings.TrimSpace(extracted)) == 0 {
		return nil, nil
	}

	return []ExtractedContent{
		{
			Name:    "content",
			Content: []byte(extracted),
		},
	}, nil
}

// extractXMLText collects the text nodes of an XML document. Text nodes on
// the same line are joined with a space; closing one of the lineBreaks
// elements ends the line.
func extractXMLText(data []byte, lineBreaks ...string) string {
	breaks := make(map[string]bool, len(lineBreaks))
	for _, name := range lineBreaks {
		breaks[name] = true
	}

	var text strings.Builder
	lineOpen := false
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.CharData:
			content := cleanText(string(t))
			if content == "" {
				continue
			}
			if lineOpen {
				text.WriteString(" ")
			}
			text.WriteString(content)
			lineOpen = true
		case xml.EndElement:
			if breaks[t.Name.Local] && lineOpen {
				text.WriteString("\n")
				lineOpen = false
			}
		}
	}

	if lineOpen {
		text.WriteString("\n")
	}
	return text.String()
}

// cleanText collapses whitespace runs and drops non-printable characters.
func cleanText(s string) string {
	var result strings.Builder
	lastSpace := false

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				result.WriteRune(' ')
				lastSpace = true
			}
		} else if unicode.IsPrint(r) {
			result.WriteRune(r)
			lastSpace = false
		}
	}

	return strings.TrimSpace(result.String())
}
