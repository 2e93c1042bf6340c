//go:build ocr

// Package ocr recognizes text in rendered page images with Tesseract.
//
// This file wraps gosseract and needs Tesseract and its headers installed.
// Build with:
//
//	go build -tags ocr ./...
package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps a Tesseract handle. It is not safe for concurrent use.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client for the given languages ("eng" if none).
// The client must be closed to release the Tesseract handle.
func New(languages ...string) (*Client, error) {
	client := gosseract.NewClient()
	if len(languages) == 0 {
		languages = []string{DefaultLanguage}
	}
	if err := client.SetLanguage(languages...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Recognize returns the text Tesseract reads from an encoded image.
// The text is returned verbatim; blank lines carry layout information.
func (c *Client) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := c.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

// SetPageSegMode sets how Tesseract analyzes the page layout.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return c.client.SetPageSegMode(gosseract.PageSegMode(mode))
}
