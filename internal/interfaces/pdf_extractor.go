package interfaces

import "context"

// PDFExtractor extracts plain text from a PDF on disk. The extraction
// library is an external collaborator; the pipeline only depends on this
// interface.
type PDFExtractor interface {
	// ExtractText returns the concatenated text of all pages. A PDF with
	// no extractable text yields an error, not an empty string.
	ExtractText(ctx context.Context, path string) (string, error)
}
