package service

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Aashish23092/ocr-form-extractor/dto"
	"github.com/Aashish23092/ocr-form-extractor/utils/kvextract"
)

// DocumentRecognizer produces a Document from an uploaded file.
type DocumentRecognizer interface {
	DocumentFromFile(ctx context.Context, data []byte, filename, password string) (*Document, error)
}

// TextRequest asks for extraction over text that is already recognized.
type TextRequest struct {
	Text        string
	Mode        dto.Mode
	Keys        []string
	IncludeText bool
}

// FileRequest asks for OCR of an uploaded file followed by extraction.
type FileRequest struct {
	Data        []byte
	Filename    string
	Password    string
	Mode        dto.Mode
	Keys        []string
	PageMarkers *bool
	IncludeText bool
}

type ExtractionService struct {
	recognizer  DocumentRecognizer
	defaultKeys []string
	pageMarkers bool
	ocrTimeout  time.Duration
}

func NewExtractionService(
	recognizer DocumentRecognizer,
	defaultKeys []string,
	pageMarkers bool,
	ocrTimeout time.Duration,
) *ExtractionService {
	return &ExtractionService{
		recognizer:  recognizer,
		defaultKeys: kvextract.CleanKeys(defaultKeys),
		pageMarkers: pageMarkers,
		ocrTimeout:  ocrTimeout,
	}
}

// DefaultKeys returns the keys searched in common mode.
func (s *ExtractionService) DefaultKeys() []string {
	out := make([]string, len(s.defaultKeys))
	copy(out, s.defaultKeys)
	return out
}

// ExtractFromText runs the selected strategy over text and finalizes the
// result.
func (s *ExtractionService) ExtractFromText(req TextRequest) (*dto.ExtractResponse, error) {
	resp, err := s.extract(req.Text, req.Mode, req.Keys)
	if err != nil {
		return nil, err
	}
	if req.IncludeText {
		resp.RawText = req.Text
	}
	return resp, nil
}

// ExtractFromFile recognizes the uploaded document, renders it to text and
// extracts from that text.
func (s *ExtractionService) ExtractFromFile(ctx context.Context, req FileRequest) (*dto.ExtractResponse, error) {
	// Fail before OCR when the key list is unusable
	if _, err := s.keysFor(req.Mode, req.Keys); err != nil {
		return nil, err
	}

	if s.ocrTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.ocrTimeout)
		defer cancel()
	}

	start := time.Now()
	doc, err := s.recognizer.DocumentFromFile(ctx, req.Data, req.Filename, req.Password)
	if err != nil {
		return nil, err
	}
	log.Printf("OCR of %s took %s", req.Filename, time.Since(start))

	markers := s.pageMarkers
	if req.PageMarkers != nil {
		markers = *req.PageMarkers
	}
	text := doc.Text(markers)

	resp, err := s.extract(text, req.Mode, req.Keys)
	if err != nil {
		return nil, err
	}
	resp.Pages = doc.Summaries()
	resp.Quality = doc.Quality()
	if req.IncludeText {
		resp.RawText = text
	}
	return resp, nil
}

func (s *ExtractionService) keysFor(mode dto.Mode, keys []string) ([]string, error) {
	switch mode {
	case dto.ModeTargeted:
		keys = kvextract.CleanKeys(keys)
		if len(keys) == 0 {
			return nil, dto.ErrNoKeys
		}
		return keys, nil
	case dto.ModeCommon, "":
		return s.defaultKeys, nil
	case dto.ModeAll:
		return nil, nil
	}
	return nil, dto.ErrInvalidMode
}

func (s *ExtractionService) extract(text string, mode dto.Mode, keys []string) (*dto.ExtractResponse, error) {
	if mode == "" {
		mode = dto.ModeCommon
	}
	keys, err := s.keysFor(mode, keys)
	if err != nil {
		return nil, err
	}

	requestID := uuid.New().String()
	lines := kvextract.SplitLines(text)

	var fields []kvextract.Field
	if mode == dto.ModeAll {
		fields = kvextract.ExtractAllFields(lines)
	} else {
		fields = kvextract.ExtractFields(lines, keys)
	}
	fields = kvextract.FinalizeFields(fields)
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Line < fields[j].Line
	})

	resp := &dto.ExtractResponse{
		RequestID:   requestID,
		Mode:        mode,
		Fields:      fields,
		FieldCount:  len(fields),
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if mode != dto.ModeAll {
		resp.MissingKeys = kvextract.MissingKeys(keys, kvextract.ToResult(fields))
	}

	log.Printf("[%s] Extracted %d field(s) in %s mode from %d content line(s)", requestID, len(fields), mode, lines.ContentCount())
	return resp, nil
}
