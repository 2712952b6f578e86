package service

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageImage is one image extracted from a PDF, still encoded (PNG, JPEG,
// TIFF), tagged with the page it came from.
type PageImage struct {
	PageNr int
	Name   string
	Data   []byte
}

type PDFProcessor interface {
	// ExtractPageTexts returns the embedded text layer, one entry per page.
	ExtractPageTexts(pdfData []byte, password string) ([]string, error)
	// ExtractImages returns the page images in page order.
	ExtractImages(pdfData []byte, password string) ([]PageImage, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

func (p *pdfProcessor) ExtractPageTexts(pdfData []byte, password string) ([]string, error) {
	var (
		r   *pdf.Reader
		err error
	)
	if password != "" {
		r, err = pdf.NewReaderEncrypted(bytes.NewReader(pdfData), int64(len(pdfData)), func() string { return password })
	} else {
		r, err = pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf text layer: %w", err)
	}

	totalPage := r.NumPage()
	pages := make([]string, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		var textBuilder strings.Builder
		rows, _ := page.GetTextByRow()
		for _, row := range rows {
			for _, word := range row.Content {
				textBuilder.WriteString(word.S)
			}
			textBuilder.WriteString("\n")
		}
		pages = append(pages, textBuilder.String())
	}
	return pages, nil
}

func (p *pdfProcessor) ExtractImages(pdfData []byte, password string) ([]PageImage, error) {
	// Create a temporary directory for extraction
	tempDir, err := os.MkdirTemp("", "pdf_images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// Create a temporary file for the PDF
	tempFile, err := os.CreateTemp("", "doc-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	conf := model.NewDefaultConfiguration()
	if password != "" {
		conf.UserPW = password
	}

	// nil selectedPages extracts from all pages
	if err := api.ExtractImagesFile(tempFile.Name(), tempDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	var images []PageImage
	for i, file := range files {
		if file.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tempDir, file.Name()))
		if err != nil {
			continue
		}
		pageNr, ok := pageNrFromImageName(file.Name())
		if !ok {
			pageNr = i + 1
		}
		images = append(images, PageImage{PageNr: pageNr, Name: file.Name(), Data: data})
	}

	sortPageImages(images)
	return images, nil
}

// pdfcpu names extracted images <pdf>_<page>_<resource>.<ext>.
var imageNameRegex = regexp.MustCompile(`_(\d+)_[^_]+\.[A-Za-z0-9]+$`)

func pageNrFromImageName(name string) (int, bool) {
	m := imageNameRegex.FindStringSubmatch(name)
	if len(m) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func sortPageImages(images []PageImage) {
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].PageNr != images[j].PageNr {
			return images[i].PageNr < images[j].PageNr
		}
		return images[i].Name < images[j].Name
	})
}
