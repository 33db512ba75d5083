package domain

import (
	"context"
	"errors"
)

type Service interface {
	// ExportResume renders a RESUME page of the calling profile as a PDF.
	ExportResume(ctx context.Context, pageID string) (*Document, error)
}

type Document struct {
	FileName    string
	ContentType string
	Content     []byte
}

var (
	ErrInvalidID     = errors.New("invalid_page_id")
	ErrNotExportable = errors.New("page_not_exportable")
)
