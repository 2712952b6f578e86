// kvextract extracts key/value fields from a scanned form without running the
// HTTP server.
//
// The input is OCR'd with the engine selected by the same environment
// variables the server reads (OCR_ENGINE, TESSDATA_PREFIX, OCR_LANGUAGE,
// PADDLEOCR_API_URL). A .txt input is taken as already-recognized text.
//
// Usage:
//
//	kvextract -in claim.pdf [options]
//
// Options:
//
//	-mode string       targeted, common or all (default "common")
//	-keys string       Comma-separated keys for targeted mode
//	-keys-file string  YAML key file replacing the built-in common keys
//	-password string   Password of an encrypted PDF
//	-no-page-markers   Do not insert "--- Page n ---" lines
//	-out string        Output file; .csv and .xlsx select the format, anything
//	                   else (or "-") writes JSON to stdout
//	-text-out string   Also write the recognized text to this file
//
// Examples:
//
//	kvextract -in claim.pdf -mode targeted -keys "Policy Number,Claim Number"
//	kvextract -in scan.png -mode all -out fields.xlsx
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Aashish23092/ocr-form-extractor/config"
	"github.com/Aashish23092/ocr-form-extractor/dto"
	"github.com/Aashish23092/ocr-form-extractor/service"
	"github.com/Aashish23092/ocr-form-extractor/utils/kvextract"
)

type options struct {
	in            string
	mode          string
	keys          string
	keysFile      string
	password      string
	noPageMarkers bool
	out           string
	textOut       string
}

func main() {
	var opts options
	flag.StringVar(&opts.in, "in", "", "Input PDF, image or .txt file")
	flag.StringVar(&opts.mode, "mode", string(dto.ModeCommon), "Extraction mode: targeted, common or all")
	flag.StringVar(&opts.keys, "keys", "", "Comma-separated keys for targeted mode")
	flag.StringVar(&opts.keysFile, "keys-file", "", "YAML file replacing the built-in common keys")
	flag.StringVar(&opts.password, "password", "", "Password of an encrypted PDF")
	flag.BoolVar(&opts.noPageMarkers, "no-page-markers", false, "Do not insert page marker lines")
	flag.StringVar(&opts.out, "out", "-", "Output file (.csv, .xlsx, otherwise JSON; - for stdout)")
	flag.StringVar(&opts.textOut, "text-out", "", "Write the recognized text to this file")
	flag.Parse()

	if opts.in == "" {
		fmt.Fprintln(os.Stderr, "Error: Must provide -in path")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		log.Fatalf("kvextract: %v", err)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	mode, err := dto.ParseMode(opts.mode)
	if err != nil {
		return err
	}

	cfg := config.LoadConfig()
	if opts.keysFile != "" {
		cfg.KeysFile = opts.keysFile
	}
	if opts.noPageMarkers {
		cfg.PageMarkers = false
	}
	defaultKeys, err := cfg.DefaultKeys()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(opts.in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	keys := kvextract.ParseKeyList(opts.keys)

	var (
		resp *dto.ExtractResponse
		text string
	)
	if strings.EqualFold(filepath.Ext(opts.in), ".txt") {
		text = string(data)
		resp, err = service.NewExtractionService(nil, defaultKeys, cfg.PageMarkers, 0).
			ExtractFromText(service.TextRequest{Text: text, Mode: mode, Keys: keys})
	} else {
		if err := cfg.Validate(); err != nil {
			return err
		}
		var ocrService *service.OCRService
		ocrService, err = service.NewOCRServiceFromConfig(cfg)
		if err != nil {
			return err
		}
		resp, err = service.NewExtractionService(ocrService, defaultKeys, cfg.PageMarkers, cfg.OCRTimeout).
			ExtractFromFile(ctx, service.FileRequest{
				Data:        data,
				Filename:    filepath.Base(opts.in),
				Password:    opts.password,
				Mode:        mode,
				Keys:        keys,
				IncludeText: true,
			})
		if resp != nil {
			text = resp.RawText
			resp.RawText = ""
		}
	}
	if err != nil {
		return err
	}

	if opts.textOut != "" {
		if err := os.WriteFile(opts.textOut, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write text: %w", err)
		}
	}

	log.Printf("Extracted %d field(s), %d missing key(s)", resp.FieldCount, len(resp.MissingKeys))
	return writeOutput(opts.out, resp, stdout)
}

func writeOutput(path string, resp *dto.ExtractResponse, stdout io.Writer) error {
	export := service.NewExportService()

	var write func(io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		write = func(w io.Writer) error { return export.WriteCSV(w, resp.Fields) }
	case ".xlsx":
		write = func(w io.Writer) error { return export.WriteXLSX(w, resp.Fields) }
	default:
		write = func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
	}

	if path == "" || path == "-" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
