package dto

import (
	"mime/multipart"
	"path/filepath"
	"strings"
)

// Mode selects the extraction strategy.
type Mode string

const (
	// ModeTargeted searches for caller-supplied keys.
	ModeTargeted Mode = "targeted"
	// ModeCommon searches for the configured default keys.
	ModeCommon Mode = "common"
	// ModeAll pairs consecutive lines without a key list.
	ModeAll Mode = "all"
)

// ParseMode maps a request value to a Mode. Empty means ModeCommon.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeCommon:
		return ModeCommon, nil
	case ModeTargeted:
		return ModeTargeted, nil
	case ModeAll:
		return ModeAll, nil
	}
	return "", ErrInvalidMode
}

// OutputFormat selects how the finalized fields are returned.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
	FormatXLSX OutputFormat = "xlsx"
)

// ParseFormat maps a request value to an OutputFormat. Empty means JSON.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", ErrInvalidFormat
}

var supportedExtensions = []string{".pdf", ".png", ".jpg", ".jpeg", ".tif", ".tiff"}

// IsSupportedFile reports whether filename has an extension the OCR service
// can read.
func IsSupportedFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, valid := range supportedExtensions {
		if ext == valid {
			return true
		}
	}
	return false
}

// ExtractRequest is the multipart form of POST /api/v1/extract.
type ExtractRequest struct {
	File        *multipart.FileHeader `form:"file"`
	Mode        string                `form:"mode"`
	Keys        string                `form:"keys"`
	Password    string                `form:"password"`
	PageMarkers *bool                 `form:"page_markers"`
	Format      string                `form:"format"`
	IncludeText bool                  `form:"include_text"`
}

// Validate checks the uploaded file against the size cap and the supported
// extensions.
func (r *ExtractRequest) Validate(maxFileSize int64) error {
	if r.File == nil {
		return ErrNoFile
	}
	if maxFileSize > 0 && r.File.Size > maxFileSize {
		return ErrFileTooLarge
	}
	if !IsSupportedFile(r.File.Filename) {
		return ErrUnsupportedFileType
	}
	return nil
}

// TextExtractRequest is the JSON body of POST /api/v1/extract/text. Text is
// OCR output that has already been recognized; it may be empty. Mode and
// Format go through ParseMode and ParseFormat like the multipart form.
type TextExtractRequest struct {
	Text    string   `json:"text"`
	Mode    string   `json:"mode"`
	Keys    string   `json:"keys"`
	KeyList []string `json:"key_list"`
	Format  string   `json:"format"`
}
