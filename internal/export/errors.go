package export

import "errors"

var (
	ErrPrint      = errors.New("pdf print failed")
	ErrInvalidPDF = errors.New("invalid pdf")
)
