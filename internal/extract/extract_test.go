package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okarpovs/doclib/internal/common"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestText_PlainText(t *testing.T) {
	got, err := Text([]byte("hello\nworld"), "notes.txt")
	require.NoError(t, err)
	require.Equal(t, "hello\nworld", got)
}

func TestText_UnknownExtensionFallsBackToUTF8(t *testing.T) {
	got, err := Text([]byte("plain enough"), "readme.md")
	require.NoError(t, err)
	require.Equal(t, "plain enough", got)
}

func TestText_DropsInvalidUTF8(t *testing.T) {
	got, err := Text([]byte{'o', 'k', 0xff, 0xfe, '!'}, "data.txt")
	require.NoError(t, err)
	require.Equal(t, "ok!", got)
}

func TestText_Docx(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>first paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t>second </w:t></w:r><w:r><w:t>paragraph</w:t></w:r></w:p>
  </w:body>
</w:document>`

	got, err := Text(buildDocx(t, doc), "report.DOCX")
	require.NoError(t, err)
	require.Equal(t, "first paragraph\nsecond paragraph", got)
}

func TestText_CorruptDocx(t *testing.T) {
	_, err := Text([]byte("definitely not a zip"), "broken.docx")
	require.Error(t, err)
	require.Contains(t, err.Error(), "docx")
}

func TestText_DocxMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Text(buf.Bytes(), "empty.docx")
	require.Error(t, err)
}

// buildPDF assembles a one-page PDF with a single text run, tracking byte
// offsets so the cross-reference table is valid.
func buildPDF(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	offsets := make([]int, 6)

	write := func(n int, body string) {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}

	buf.WriteString("%PDF-1.4\n")
	write(1, "<< /Type /Catalog /Pages 2 0 R >>")
	write(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	write(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>")
	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	write(4, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	write(5, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xref := buf.Len()
	buf.WriteString("xref\n0 6\n")
	buf.WriteString("0000000000 65535 f \n")
	for n := 1; n <= 5; n++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[n])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func TestText_Pdf(t *testing.T) {
	got, err := Text(buildPDF(t, "Hello from a tiny PDF"), "paper.PDF")
	require.NoError(t, err)
	require.Contains(t, got, "Hello from a tiny PDF")
}

func TestText_CorruptPdf(t *testing.T) {
	_, err := Text([]byte("%PDF-1.4 garbage"), "broken.pdf")
	require.Error(t, err)
	require.False(t, errors.Is(err, common.ErrUnsupportedFormat), "got %v", err)
}

func TestText_PdfWithoutParser(t *testing.T) {
	parsersMu.Lock()
	orig := parsers[".pdf"]
	delete(parsers, ".pdf")
	parsersMu.Unlock()
	t.Cleanup(func() { Register(".pdf", orig) })

	_, err := Text([]byte("%PDF-1.4"), "paper.pdf")
	require.True(t, errors.Is(err, common.ErrUnsupportedFormat), "got %v", err)
}

type stubParser struct{ out string }

func (s stubParser) Extract([]byte) (string, error) { return s.out, nil }

func TestRegister_EnablesFormat(t *testing.T) {
	Register(".rtf", stubParser{out: "rtf text"})
	t.Cleanup(func() {
		parsersMu.Lock()
		delete(parsers, ".rtf")
		parsersMu.Unlock()
	})

	got, err := Text([]byte(`{\rtf1 memo}`), "memo.rtf")
	require.NoError(t, err)
	require.Equal(t, "rtf text", got)
}
