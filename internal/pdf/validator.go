package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validator handles PDF input validation. Every rejection is a *DocumentError.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// MaxFileSize returns the size limit in bytes
func (v *Validator) MaxFileSize() int64 {
	return v.maxFileSize
}

// ReadFile checks the file on disk and returns its bytes
func (v *Validator) ReadFile(filePath string) ([]byte, error) {
	if filePath == "" {
		return nil, newDocumentError(ErrorTypeNotFound, "", "path cannot be empty", nil)
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, newDocumentError(ErrorTypeNotFound, filePath, "file does not exist", nil)
	}
	if err != nil {
		return nil, newDocumentError(ErrorTypeNotFound, filePath, "cannot access file", err)
	}

	if fileInfo.IsDir() {
		return nil, newDocumentError(ErrorTypeNotAFile, filePath, "path is a directory, not a file", nil)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return nil, newDocumentError(ErrorTypeNotAFile, filePath, "file is not a PDF", nil)
	}

	if err := v.checkSize(fileInfo.Size()); err != nil {
		err.Path = filePath
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, newDocumentError(ErrorTypeNotFound, filePath, "cannot read file", err)
	}
	return data, nil
}

// ValidateBytes decodes data with pdfcpu and returns its page count
func (v *Validator) ValidateBytes(data []byte) (int, error) {
	if err := v.checkSize(int64(len(data))); err != nil {
		return 0, err
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, newDocumentError(ErrorTypeUndecodable, "", "failed to read PDF context", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return 0, newDocumentError(ErrorTypeUndecodable, "", "failed to ensure page count", err)
	}

	return ctx.PageCount, nil
}

// ValidateFile reports whether filePath is a readable PDF. Validation
// failures are reported in the result, not as an error.
func (v *Validator) ValidateFile(filePath string) *ValidateFileResult {
	result := &ValidateFileResult{
		Path:  filePath,
		Valid: false,
	}

	data, err := v.ReadFile(filePath)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	pages, err := v.ValidateBytes(data)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	result.Valid = true
	result.Pages = pages
	result.Size = int64(len(data))
	return result
}

func (v *Validator) checkSize(size int64) *DocumentError {
	if size == 0 {
		return newDocumentError(ErrorTypeEmpty, "", "file is empty", nil)
	}
	if size > v.maxFileSize {
		return newDocumentError(ErrorTypeTooLarge, "",
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", size, v.maxFileSize), nil)
	}
	return nil
}
