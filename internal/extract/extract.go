// Package extract turns uploaded file bytes into plain text. Parsers for
// .docx and .pdf are registered out of the box; .txt and unknown extensions
// fall back to a UTF-8 decode. A recognized extension whose parser has been
// removed surfaces as common.ErrUnsupportedFormat instead of failing deep
// inside the pipeline.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"

	"github.com/okarpovs/doclib/internal/common"
)

// Parser extracts plain text from the raw bytes of one file format.
type Parser interface {
	Extract(data []byte) (string, error)
}

// parsers maps a lowercase file extension to its parser. Guarded by
// parsersMu because upload handlers read it concurrently.
var (
	parsersMu sync.RWMutex
	parsers   = map[string]Parser{
		".docx": docxParser{},
		".pdf":  pdfParser{},
	}
)

// Register installs (or replaces) the parser for the given extension,
// e.g. Register(".rtf", p). The extension must include the leading dot.
// Safe to call while uploads are being served.
func Register(ext string, p Parser) {
	parsersMu.Lock()
	defer parsersMu.Unlock()
	parsers[strings.ToLower(ext)] = p
}

func lookup(ext string) (Parser, bool) {
	parsersMu.RLock()
	defer parsersMu.RUnlock()
	p, ok := parsers[ext]
	return p, ok
}

// Text decodes the content of an uploaded file into plain text based on its
// filename extension. Extensions with a registered parser go through that
// parser; plain text and unknown extensions are decoded as UTF-8 with invalid
// sequences dropped. A recognized binary extension without a parser returns
// common.ErrUnsupportedFormat; a corrupt file returns a descriptive error.
func Text(data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case "", ".txt":
		return decodeUTF8(data), nil
	}

	if p, ok := lookup(ext); ok {
		text, err := p.Extract(data)
		if err != nil {
			return "", fmt.Errorf("extracting %s: %w", filename, err)
		}
		return text, nil
	}

	if ext == ".docx" || ext == ".pdf" {
		return "", fmt.Errorf("no parser for %s: %w", ext, common.ErrUnsupportedFormat)
	}

	return decodeUTF8(data), nil
}

// decodeUTF8 drops invalid byte sequences instead of failing.
func decodeUTF8(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

// docxParser reads the main document part of a DOCX container and joins
// paragraph text with newlines.
type docxParser struct{}

func (docxParser) Extract(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not a valid docx container: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("docx container has no word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("opening document part: %w", err)
	}
	defer rc.Close()

	return docxText(rc)
}

// docxText walks WordprocessingML tokens collecting run text (<w:t>) and
// emitting one line per paragraph (<w:p>).
func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var sb strings.Builder
	var inRunText bool
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed document part: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inRunText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inRunText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inRunText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}

// pdfParser pulls the plain text layer out of a PDF. The underlying library
// reports malformed input by panicking, so Extract converts panics into
// errors.
type pdfParser struct{}

func (pdfParser) Extract(data []byte) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed pdf: %v", p)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not a valid pdf: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}

	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}

	return string(b), nil
}
