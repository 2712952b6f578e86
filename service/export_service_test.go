package service

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/ocr-form-extractor/utils/kvextract"
)

var exportFields = []kvextract.Field{
	{Key: "Policy Number", Value: "PN-4471"},
	{Key: "Address", Value: "12 Main St, Springfield"},
	{Key: "Note", Value: `said "urgent"`},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExportService().WriteCSV(&buf, exportFields))

	expected := "Key,Value\n" +
		"Policy Number,PN-4471\n" +
		"Address,\"12 Main St, Springfield\"\n" +
		"Note,\"said \"\"urgent\"\"\"\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExportService().WriteCSV(&buf, nil))
	assert.Equal(t, "Key,Value\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExportService().WriteXLSX(&buf, exportFields))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Fields"}, f.GetSheetList())

	rows, err := f.GetRows("Fields")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Key", "Value"},
		{"Policy Number", "PN-4471"},
		{"Address", "12 Main St, Springfield"},
		{"Note", `said "urgent"`},
	}, rows)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteXLSXWriterError(t *testing.T) {
	err := NewExportService().WriteXLSX(failingWriter{}, exportFields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestWriteCSVWriterError(t *testing.T) {
	err := NewExportService().WriteCSV(failingWriter{}, exportFields)
	assert.Error(t, err)
}

func TestWriteXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExportService().WriteXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Fields")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Key", "Value"}}, rows)
}
