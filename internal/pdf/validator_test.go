package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/candidate-extractor/internal/pdf/pdftest"
)

func TestValidator_ValidateBytes(t *testing.T) {
	validator := NewValidator(1024 * 1024)

	pages, err := validator.ValidateBytes(pdftest.Minimal([]string{"one"}, []string{"two"}))
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
}

func TestValidator_ValidateBytes_Rejects(t *testing.T) {
	validator := NewValidator(64)

	tests := []struct {
		name     string
		data     []byte
		wantType ErrorType
	}{
		{name: "empty", data: nil, wantType: ErrorTypeEmpty},
		{name: "too large", data: make([]byte, 65), wantType: ErrorTypeTooLarge},
		{name: "not a pdf", data: []byte("this is plain text"), wantType: ErrorTypeUndecodable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validator.ValidateBytes(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDocument)

			var docErr *DocumentError
			require.True(t, errors.As(err, &docErr))
			assert.Equal(t, tt.wantType, docErr.Type)
		})
	}
}

func TestValidator_ReadFile(t *testing.T) {
	validator := NewValidator(1024 * 1024)
	dir := t.TempDir()

	valid := filepath.Join(dir, "listing.pdf")
	require.NoError(t, os.WriteFile(valid, pdftest.Minimal([]string{"x"}), 0o644))

	notPDF := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notPDF, []byte("hello"), 0o644))

	empty := filepath.Join(dir, "empty.pdf")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	data, err := validator.ReadFile(valid)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	tests := []struct {
		name     string
		path     string
		wantType ErrorType
	}{
		{name: "empty path", path: "", wantType: ErrorTypeNotFound},
		{name: "missing", path: filepath.Join(dir, "missing.pdf"), wantType: ErrorTypeNotFound},
		{name: "directory", path: dir, wantType: ErrorTypeNotAFile},
		{name: "wrong extension", path: notPDF, wantType: ErrorTypeNotAFile},
		{name: "empty file", path: empty, wantType: ErrorTypeEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validator.ReadFile(tt.path)
			var docErr *DocumentError
			require.True(t, errors.As(err, &docErr))
			assert.Equal(t, tt.wantType, docErr.Type)
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestValidator_ValidateFile(t *testing.T) {
	validator := NewValidator(1024 * 1024)
	dir := t.TempDir()

	valid := filepath.Join(dir, "listing.pdf")
	require.NoError(t, os.WriteFile(valid, pdftest.Minimal([]string{"x"}), 0o644))

	broken := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(broken, []byte("%PDF-1.4 garbage"), 0o644))

	result := validator.ValidateFile(valid)
	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.Pages)
	assert.Empty(t, result.Message)

	result = validator.ValidateFile(broken)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Message)
	assert.Equal(t, broken, result.Path)
}

func TestDocumentError(t *testing.T) {
	cause := errors.New("bad xref")
	err := newDocumentError(ErrorTypeUndecodable, "a.pdf", "failed to read PDF context", cause)

	assert.Equal(t, "[UNDECODABLE] failed to read PDF context: a.pdf: bad xref", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInvalidDocument)
	assert.Equal(t, "UNKNOWN", ErrorTypeUnknown.String())
}
