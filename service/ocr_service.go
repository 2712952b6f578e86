package service

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Aashish23092/ocr-form-extractor/client"
	"github.com/Aashish23092/ocr-form-extractor/dto"
	"github.com/Aashish23092/ocr-form-extractor/utils/kvextract"
)

const (
	SourceOCR       = "ocr"
	SourceTextLayer = "text-layer"

	// minTextLayerChars is how much embedded text a PDF page needs before it
	// is trusted over OCR.
	minTextLayerChars = 20

	lowConfidenceThreshold = 60.0
)

// OCREngine turns one encoded page image into text lines.
type OCREngine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (client.PageText, error)
}

// Page is the recognized text of a single document page.
type Page struct {
	Number     int
	Lines      []string
	Confidence float64
	Source     string
	Barcodes   []string
	Issue      string

	err error
}

// Document is a recognized multi-page document.
type Document struct {
	Pages []Page
}

// Text renders the document as one text body: per page an optional
// "--- Page n ---" marker, the page lines, then a blank line.
func (d *Document) Text(markers bool) string {
	var sb strings.Builder
	for _, p := range d.Pages {
		if markers {
			sb.WriteString(kvextract.PageMarker(p.Number))
			sb.WriteString("\n")
		}
		for _, line := range p.Lines {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Quality summarizes OCR confidence across the pages that went through the
// engine.
func (d *Document) Quality() *dto.DocumentQuality {
	q := &dto.DocumentQuality{Issues: []string{}}
	var total float64
	for _, p := range d.Pages {
		switch p.Source {
		case SourceTextLayer:
			q.TextPages++
		case SourceOCR:
			q.OcrPages++
			total += p.Confidence
		}
		if p.Issue != "" {
			q.Issues = append(q.Issues, fmt.Sprintf("page_%d_%s", p.Number, p.Issue))
		}
	}
	if q.OcrPages > 0 {
		q.OcrConfidence = total / float64(q.OcrPages)
		if q.OcrConfidence < lowConfidenceThreshold {
			q.Issues = append(q.Issues, "low_ocr_confidence")
		}
	}
	return q
}

// Summaries describes every page for the response.
func (d *Document) Summaries() []dto.PageSummary {
	out := make([]dto.PageSummary, 0, len(d.Pages))
	for _, p := range d.Pages {
		out = append(out, dto.PageSummary{
			Number:     p.Number,
			Source:     p.Source,
			Lines:      len(p.Lines),
			Confidence: p.Confidence,
			Barcodes:   p.Barcodes,
		})
	}
	return out
}

// ocrError returns the first engine error recorded on a page.
func (d *Document) ocrError() error {
	for _, p := range d.Pages {
		if p.err != nil {
			return p.err
		}
	}
	return nil
}

func (d *Document) hasText() bool {
	for _, p := range d.Pages {
		if len(p.Lines) > 0 {
			return true
		}
	}
	return false
}

// OCRService turns uploaded PDFs and images into a Document.
type OCRService struct {
	engine          OCREngine
	pdfProcessor    PDFProcessor
	scanner         BarcodeScanner
	preferTextLayer bool
	workers         int
}

// NewOCRService creates a new OCRService. scanner may be nil to skip QR
// decoding.
func NewOCRService(engine OCREngine, pdfProcessor PDFProcessor, scanner BarcodeScanner, preferTextLayer bool) *OCRService {
	return &OCRService{
		engine:          engine,
		pdfProcessor:    pdfProcessor,
		scanner:         scanner,
		preferTextLayer: preferTextLayer,
		workers:         runtime.NumCPU(),
	}
}

// SetWorkers caps how many page images are recognized at once. n <= 0 keeps
// the default of one per CPU.
func (s *OCRService) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

// DocumentFromFile recognizes data according to the extension of filename.
func (s *OCRService) DocumentFromFile(ctx context.Context, data []byte, filename, password string) (*Document, error) {
	if !dto.IsSupportedFile(filename) {
		return nil, dto.ErrUnsupportedFileType
	}

	var (
		doc *Document
		err error
	)
	if strings.ToLower(filepath.Ext(filename)) == ".pdf" {
		doc, err = s.documentFromPDF(ctx, data, password)
	} else {
		doc = &Document{Pages: []Page{s.recognizePage(ctx, 1, data)}}
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !doc.hasText() {
		// an engine outage is not a blank document
		if ocrErr := doc.ocrError(); ocrErr != nil {
			return nil, fmt.Errorf("OCR failed: %w", ocrErr)
		}
		return nil, dto.ErrNoText
	}

	log.Printf("Recognized %d page(s) from %s with %s", len(doc.Pages), filename, s.engine.Name())
	return doc, nil
}

func (s *OCRService) documentFromPDF(ctx context.Context, data []byte, password string) (*Document, error) {
	var (
		texts      []string
		textLoaded bool
	)
	pageTexts := func() []string {
		if !textLoaded {
			textLoaded = true
			var err error
			if texts, err = s.pdfProcessor.ExtractPageTexts(data, password); err != nil {
				log.Printf("Text layer unavailable: %v", err)
			}
		}
		return texts
	}

	textPages := map[int][]string{}
	if s.preferTextLayer {
		for i, text := range pageTexts() {
			if len(strings.TrimSpace(text)) >= minTextLayerChars {
				textPages[i+1] = kvextract.SplitLines(text).Compact()
			}
		}
		if len(texts) > 0 && len(textPages) == len(texts) {
			return documentFromTextPages(texts, textPages), nil
		}
	}

	images, imgErr := s.pdfProcessor.ExtractImages(data, password)
	if imgErr != nil {
		log.Printf("Image extraction failed: %v", imgErr)
	}

	// Pages without any image (born-digital or vector-only) use their text
	// layer whatever the preference.
	imaged := map[int]bool{}
	for _, img := range images {
		imaged[img.PageNr] = true
	}
	for i, text := range pageTexts() {
		n := i + 1
		if imaged[n] || textPages[n] != nil {
			continue
		}
		if lines := kvextract.SplitLines(text).Compact(); len(lines) > 0 {
			textPages[n] = lines
		}
	}

	if imgErr != nil && len(textPages) == 0 {
		return nil, fmt.Errorf("failed to process PDF: %w", imgErr)
	}
	if len(images) == 0 && len(textPages) == 0 {
		return nil, dto.ErrNoText
	}

	// Recognize images concurrently, at most s.workers at a time; results
	// keep image order.
	recognized := make([]*Page, len(images))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, img := range images {
		if _, ok := textPages[img.PageNr]; ok {
			continue
		}
		g.Go(func() error {
			page := s.recognizePage(ctx, img.PageNr, img.Data)
			recognized[i] = &page
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := &Document{}
	used := map[int]bool{}
	for i, img := range images {
		if lines, ok := textPages[img.PageNr]; ok {
			if !used[img.PageNr] {
				doc.Pages = append(doc.Pages, Page{Number: img.PageNr, Lines: lines, Source: SourceTextLayer})
				used[img.PageNr] = true
			}
			continue
		}
		doc.Pages = mergePage(doc.Pages, *recognized[i])
	}

	// text-layer pages that carry no image
	for n, lines := range textPages {
		if !used[n] {
			doc.Pages = append(doc.Pages, Page{Number: n, Lines: lines, Source: SourceTextLayer})
		}
	}
	sortPages(doc.Pages)
	return doc, nil
}

// recognizePage never fails: engine errors are recorded on the page so the
// remaining pages still count.
func (s *OCRService) recognizePage(ctx context.Context, number int, image []byte) Page {
	page := Page{Number: number, Source: SourceOCR}

	text, err := s.engine.Recognize(ctx, image)
	if err != nil {
		log.Printf("OCR failed on page %d: %v", number, err)
		page.Issue = "ocr_failed"
		page.err = err
	} else {
		page.Lines = text.Lines
		page.Confidence = text.Confidence
	}

	if s.scanner != nil {
		codes, err := s.scanner.Scan(image)
		if err != nil {
			log.Printf("QR scan skipped on page %d: %v", number, err)
		}
		page.Barcodes = codes
	}
	return page
}

func documentFromTextPages(texts []string, textPages map[int][]string) *Document {
	doc := &Document{Pages: make([]Page, 0, len(texts))}
	for i := range texts {
		doc.Pages = append(doc.Pages, Page{Number: i + 1, Lines: textPages[i+1], Source: SourceTextLayer})
	}
	return doc
}

// mergePage folds several images of the same page into one Page, keeping
// line order and averaging confidence.
func mergePage(pages []Page, p Page) []Page {
	for i := range pages {
		if pages[i].Number != p.Number || pages[i].Source != SourceOCR {
			continue
		}
		prev := &pages[i]
		switch {
		case len(prev.Lines) == 0:
			prev.Confidence = p.Confidence
		case len(p.Lines) > 0:
			prev.Confidence = (prev.Confidence + p.Confidence) / 2
		}
		prev.Lines = append(prev.Lines, p.Lines...)
		prev.Barcodes = append(prev.Barcodes, p.Barcodes...)
		if prev.Issue == "" {
			prev.Issue = p.Issue
		}
		if prev.err == nil {
			prev.err = p.err
		}
		return pages
	}
	return append(pages, p)
}

func sortPages(pages []Page) {
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Number < pages[j].Number
	})
}
