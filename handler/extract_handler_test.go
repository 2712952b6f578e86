package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/ocr-form-extractor/dto"
	"github.com/Aashish23092/ocr-form-extractor/service"
)

type stubRecognizer struct {
	doc      *service.Document
	err      error
	filename string
	password string
}

func (s *stubRecognizer) DocumentFromFile(_ context.Context, _ []byte, filename, password string) (*service.Document, error) {
	s.filename = filename
	s.password = password
	return s.doc, s.err
}

func newTestRouter(rec service.DocumentRecognizer, maxFileSize int64) *gin.Engine {
	gin.SetMode(gin.TestMode)

	extraction := service.NewExtractionService(rec, []string{"Policy Number", "Insured"}, true, 0)
	h := NewExtractHandler(extraction, service.NewExportService(), maxFileSize)

	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func claimDocument() *service.Document {
	return &service.Document{Pages: []service.Page{
		{Number: 1, Lines: []string{"Policy Number", "PN-4471", "Insured", "Jane Doe"}, Confidence: 92, Source: service.SourceOCR},
	}}
}

func multipartRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestExtractFileJSON(t *testing.T) {
	stub := &stubRecognizer{doc: claimDocument()}
	router := newTestRouter(stub, 1<<20)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "claim.pdf", []byte("%PDF"), map[string]string{
		"mode":         "targeted",
		"keys":         "Insured, Claim Number",
		"password":     "secret",
		"include_text": "true",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "claim.pdf", stub.filename)
	assert.Equal(t, "secret", stub.password)

	var resp dto.ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, dto.ModeTargeted, resp.Mode)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "Insured", resp.Fields[0].Key)
	assert.Equal(t, "Jane Doe", resp.Fields[0].Value)
	assert.Equal(t, []string{"Claim Number"}, resp.MissingKeys)
	assert.True(t, strings.HasPrefix(resp.RawText, "--- Page 1 ---\n"))
	require.Len(t, resp.Pages, 1)
}

func TestExtractFileCSV(t *testing.T) {
	router := newTestRouter(&stubRecognizer{doc: claimDocument()}, 1<<20)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "claim.png", []byte("img"), map[string]string{"format": "csv"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=extracted_fields.csv", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, contentTypeCSV, rec.Header().Get("Content-Type"))
	assert.Equal(t, "Key,Value\nPolicy Number,PN-4471\nInsured,Jane Doe\n", rec.Body.String())
}

func TestExtractFileXLSX(t *testing.T) {
	router := newTestRouter(&stubRecognizer{doc: claimDocument()}, 1<<20)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "claim.png", []byte("img"), map[string]string{"format": "xlsx"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=extracted_fields.xlsx", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, contentTypeXLSX, rec.Header().Get("Content-Type"))
	// xlsx is a zip archive
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestExtractFileErrors(t *testing.T) {
	tests := []struct {
		name     string
		stub     *stubRecognizer
		filename string
		content  []byte
		fields   map[string]string
		status   int
		code     string
	}{
		{name: "missing file", stub: &stubRecognizer{}, status: http.StatusBadRequest, code: "INVALID_REQUEST"},
		{name: "unsupported type", stub: &stubRecognizer{}, filename: "notes.docx", content: []byte("x"), status: http.StatusBadRequest, code: "INVALID_REQUEST"},
		{name: "too large", stub: &stubRecognizer{}, filename: "big.png", content: bytes.Repeat([]byte("x"), 64), status: http.StatusRequestEntityTooLarge, code: "FILE_TOO_LARGE"},
		{name: "bad mode", stub: &stubRecognizer{}, filename: "a.png", content: []byte("x"), fields: map[string]string{"mode": "fuzzy"}, status: http.StatusBadRequest, code: "INVALID_REQUEST"},
		{name: "bad format", stub: &stubRecognizer{}, filename: "a.png", content: []byte("x"), fields: map[string]string{"format": "pdf"}, status: http.StatusBadRequest, code: "INVALID_REQUEST"},
		{name: "bad page_markers", stub: &stubRecognizer{}, filename: "a.png", content: []byte("x"), fields: map[string]string{"page_markers": "maybe"}, status: http.StatusBadRequest, code: "INVALID_REQUEST"},
		{name: "targeted without keys", stub: &stubRecognizer{doc: claimDocument()}, filename: "a.png", content: []byte("x"), fields: map[string]string{"mode": "targeted", "keys": " , "}, status: http.StatusBadRequest, code: "INVALID_REQUEST"},
		{name: "no text", stub: &stubRecognizer{err: dto.ErrNoText}, filename: "a.png", content: []byte("x"), status: http.StatusUnprocessableEntity, code: "NO_TEXT_RECOGNIZED"},
		{name: "engine failure", stub: &stubRecognizer{err: assert.AnError}, filename: "a.png", content: []byte("x"), status: http.StatusInternalServerError, code: "EXTRACTION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(tt.stub, 32)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, multipartRequest(t, tt.filename, tt.content, tt.fields))

			assert.Equal(t, tt.status, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.code, resp.Error)
			assert.Equal(t, tt.status, resp.Code)
		})
	}
}

func TestExtractFilePageMarkersOff(t *testing.T) {
	router := newTestRouter(&stubRecognizer{doc: claimDocument()}, 1<<20)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "claim.png", []byte("img"), map[string]string{
		"page_markers": "false",
		"include_text": "1",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Policy Number\nPN-4471\nInsured\nJane Doe\n\n", resp.RawText)
}

func TestExtractText(t *testing.T) {
	router := newTestRouter(nil, 0)

	body := `{"text":"A\n1\n\nB\n2\nC","mode":"all"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract/text", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, map[string]string(resp.Result()))
	assert.Nil(t, resp.Quality)
}

func TestExtractTextKeyList(t *testing.T) {
	router := newTestRouter(nil, 0)

	body := `{"text":"Name\nJane\nPhone\n555","mode":"targeted","key_list":["Phone"],"keys":"Name"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract/text", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, map[string]string{"Name": "Jane", "Phone": "555"}, map[string]string(resp.Result()))
}

func TestExtractTextInvalid(t *testing.T) {
	router := newTestRouter(nil, 0)

	for _, body := range []string{`{"text":`, `{"text":"a","mode":"fuzzy"}`, `{"text":"a","format":"pdf"}`, `{"text":"a","mode":"targeted"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/extract/text", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestDefaultKeys(t *testing.T) {
	router := newTestRouter(nil, 0)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/keys/default", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"keys":["Policy Number","Insured"]}`, rec.Body.String())
}

func TestExtractTextModeAndFormatCaseInsensitive(t *testing.T) {
	router := newTestRouter(nil, 0)

	body := `{"text":"Name\nJane\nPhone\n555","mode":"Targeted","keys":"Phone","format":"CSV"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract/text", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=extracted_fields.csv", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Key,Value\nPhone,555\n", rec.Body.String())
}

func TestExtractFileBindsFormFields(t *testing.T) {
	stub := &stubRecognizer{doc: claimDocument()}
	router := newTestRouter(stub, 1<<20)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "claim.tiff", []byte("img"), map[string]string{
		"mode":         "ALL",
		"password":     "pw",
		"page_markers": "0",
		"include_text": "true",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "claim.tiff", stub.filename)
	assert.Equal(t, "pw", stub.password)

	var resp dto.ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, dto.ModeAll, resp.Mode)
	assert.Equal(t, "Policy Number\nPN-4471\nInsured\nJane Doe\n\n", resp.RawText)
	assert.Equal(t, map[string]string{"Policy Number": "PN-4471", "Insured": "Jane Doe"}, map[string]string(resp.Result()))
}

func TestExtractFileInvalidIncludeText(t *testing.T) {
	router := newTestRouter(&stubRecognizer{doc: claimDocument()}, 1<<20)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "claim.png", []byte("img"), map[string]string{"include_text": "sometimes"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, rec).Error)
}
