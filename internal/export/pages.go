package export

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageCount reports the number of pages of a PDF.
func PageCount(data []byte) (int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	return r.NumPage(), nil
}
