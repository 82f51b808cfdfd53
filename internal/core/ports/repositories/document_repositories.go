package repositories

import (
	"context"

	"github.com/SscSPs/partsledger/internal/core/domain"
)

// DocumentReader defines read operations for sales and purchases.
type DocumentReader interface {
	FindDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error)
	ListDocuments(ctx context.Context, kind domain.DocumentKind, filter domain.DocumentFilter) ([]domain.Document, error)
}

// DocumentWriter defines write operations for sales and purchases.
type DocumentWriter interface {
	// SaveDocument stores the header and every line.
	SaveDocument(ctx context.Context, doc domain.Document) error
	LockDocument(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error)
	UpdateDocumentStatus(ctx context.Context, doc domain.Document) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
