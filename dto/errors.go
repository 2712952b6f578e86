package dto

import "errors"

// Custom errors
var (
	ErrNoFile              = errors.New("file is required")
	ErrFileTooLarge        = errors.New("file exceeds the maximum upload size")
	ErrUnsupportedFileType = errors.New("invalid file type. Supported: PDF, PNG, JPG, TIFF")
	ErrInvalidMode         = errors.New("mode must be one of: targeted, common, all")
	ErrInvalidFormat       = errors.New("format must be one of: json, csv, xlsx")
	ErrNoKeys              = errors.New("at least one key is required in targeted mode")
	ErrNoText              = errors.New("no text could be recognized in the document")
	ErrUnknownEngine       = errors.New("unknown OCR engine")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
