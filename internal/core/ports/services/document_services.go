package services

import (
	"context"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/SscSPs/partsledger/internal/dto"
)

// DocumentSvcFacade composes, cancels and lists sales and purchases.
type DocumentSvcFacade interface {
	ComposeSale(ctx context.Context, req dto.CreateSaleRequest, userID string) (*domain.Document, error)
	ComposePurchase(ctx context.Context, req dto.CreatePurchaseRequest, userID string) (*domain.Document, error)
	CancelDocument(ctx context.Context, kind domain.DocumentKind, documentID string, userID string) (*domain.Document, error)
	GetDocument(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error)
	ListDocuments(ctx context.Context, kind domain.DocumentKind, params dto.ListDocumentsParams) ([]domain.Document, error)
}
