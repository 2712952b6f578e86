package handler

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/ocr-form-extractor/dto"
	"github.com/Aashish23092/ocr-form-extractor/service"
	"github.com/Aashish23092/ocr-form-extractor/utils/kvextract"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ExtractHandler struct {
	extractionService *service.ExtractionService
	exportService     *service.ExportService
	maxFileSize       int64
}

func NewExtractHandler(
	extractionService *service.ExtractionService,
	exportService *service.ExportService,
	maxFileSize int64,
) *ExtractHandler {
	return &ExtractHandler{
		extractionService: extractionService,
		exportService:     exportService,
		maxFileSize:       maxFileSize,
	}
}

// RegisterRoutes mounts the extraction endpoints on api.
func (h *ExtractHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/extract", h.ExtractFile)
	api.POST("/extract/text", h.ExtractText)
	api.GET("/keys/default", h.DefaultKeys)
}

// ExtractFile handles the POST /extract endpoint
func (h *ExtractHandler) ExtractFile(c *gin.Context) {
	log.Println("Received extraction request")

	var request dto.ExtractRequest
	if err := c.ShouldBind(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	// Validate request
	if err := request.Validate(h.maxFileSize); err != nil {
		h.sendError(c, statusFor(err), err.Error(), err)
		return
	}
	mode, err := dto.ParseMode(request.Mode)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	format, err := dto.ParseFormat(request.Format)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	f, err := request.File.Open()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to open uploaded file", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}

	log.Printf("Processing %s (%d bytes) in %s mode", request.File.Filename, len(data), mode)

	response, err := h.extractionService.ExtractFromFile(c.Request.Context(), service.FileRequest{
		Data:        data,
		Filename:    request.File.Filename,
		Password:    request.Password,
		Mode:        mode,
		Keys:        kvextract.ParseKeyList(request.Keys),
		PageMarkers: request.PageMarkers,
		IncludeText: request.IncludeText,
	})
	if err != nil {
		h.sendError(c, statusFor(err), "Failed to extract fields", err)
		return
	}

	log.Printf("Extraction completed: %d field(s)", response.FieldCount)
	h.respond(c, format, response)
}

// ExtractText handles the POST /extract/text endpoint
func (h *ExtractHandler) ExtractText(c *gin.Context) {
	var request dto.TextExtractRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	mode, err := dto.ParseMode(request.Mode)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	format, err := dto.ParseFormat(request.Format)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	keys := append(kvextract.CleanKeys(request.KeyList), kvextract.ParseKeyList(request.Keys)...)

	response, err := h.extractionService.ExtractFromText(service.TextRequest{
		Text: request.Text,
		Mode: mode,
		Keys: keys,
	})
	if err != nil {
		h.sendError(c, statusFor(err), "Failed to extract fields", err)
		return
	}

	h.respond(c, format, response)
}

// DefaultKeys handles the GET /keys/default endpoint
func (h *ExtractHandler) DefaultKeys(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"keys": h.extractionService.DefaultKeys()})
}

func (h *ExtractHandler) respond(c *gin.Context, format dto.OutputFormat, response *dto.ExtractResponse) {
	var (
		buf         bytes.Buffer
		err         error
		contentType string
	)
	switch format {
	case dto.FormatCSV:
		err = h.exportService.WriteCSV(&buf, response.Fields)
		contentType = contentTypeCSV
	case dto.FormatXLSX:
		err = h.exportService.WriteXLSX(&buf, response.Fields)
		contentType = contentTypeXLSX
	default:
		c.JSON(http.StatusOK, response)
		return
	}
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to export fields", err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=extracted_fields."+string(format))
	c.Header("X-Request-ID", response.RequestID)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dto.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, dto.ErrNoText):
		return http.StatusUnprocessableEntity
	case errors.Is(err, dto.ErrNoFile),
		errors.Is(err, dto.ErrUnsupportedFileType),
		errors.Is(err, dto.ErrInvalidMode),
		errors.Is(err, dto.ErrInvalidFormat),
		errors.Is(err, dto.ErrNoKeys):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func errorCode(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusRequestEntityTooLarge:
		return "FILE_TOO_LARGE"
	case http.StatusUnprocessableEntity:
		return "NO_TEXT_RECOGNIZED"
	}
	return "EXTRACTION_FAILED"
}

// sendError sends a structured error response
func (h *ExtractHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   errorCode(statusCode),
		Message: errorMsg,
		Code:    statusCode,
	})
}
