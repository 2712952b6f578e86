package dto

import "github.com/Aashish23092/ocr-form-extractor/utils/kvextract"

type DocumentQuality struct {
	OcrConfidence float64  `json:"ocr_confidence"`
	OcrPages      int      `json:"ocr_pages"`
	TextPages     int      `json:"text_layer_pages"`
	Issues        []string `json:"issues"`
}

type PageSummary struct {
	Number     int      `json:"number"`
	Source     string   `json:"source"` // "ocr" or "text-layer"
	Lines      int      `json:"lines"`
	Confidence float64  `json:"confidence,omitempty"`
	Barcodes   []string `json:"barcodes,omitempty"`
}

// ExtractResponse is the final response structure
type ExtractResponse struct {
	RequestID   string            `json:"request_id"`
	Mode        Mode              `json:"mode"`
	Fields      []kvextract.Field `json:"fields"`
	FieldCount  int               `json:"field_count"`
	MissingKeys []string          `json:"missing_keys,omitempty"`
	Pages       []PageSummary     `json:"pages,omitempty"`
	Quality     *DocumentQuality  `json:"quality,omitempty"`
	RawText     string            `json:"raw_text,omitempty"`
	ProcessedAt string            `json:"processed_at"`
}

// Result returns the fields as a key/value mapping.
func (r *ExtractResponse) Result() kvextract.Result {
	return kvextract.ToResult(r.Fields)
}
