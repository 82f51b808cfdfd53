package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
)

func (t *txStore) documentsOf(kind domain.DocumentKind) (map[string]domain.Document, error) {
	docs, ok := t.st.documents[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidation, kind)
	}
	return docs, nil
}

func (t *txStore) FindDocumentByID(_ context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
	docs, err := t.documentsOf(kind)
	if err != nil {
		return nil, err
	}
	doc, ok := docs[documentID]
	if !ok {
		return nil, apperrors.NewNotFoundError(string(kind), documentID)
	}
	doc.Lines = slices.Clone(doc.Lines)
	return &doc, nil
}

// ListDocuments returns matching headers with their lines, newest first.
func (t *txStore) ListDocuments(_ context.Context, kind domain.DocumentKind, filter domain.DocumentFilter) ([]domain.Document, error) {
	docs, err := t.documentsOf(kind)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Document, 0)
	for _, doc := range docs {
		if filter.From != nil && doc.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && doc.Date.After(*filter.To) {
			continue
		}
		if filter.CounterpartyID != "" && (doc.CounterpartyID == nil || *doc.CounterpartyID != filter.CounterpartyID) {
			continue
		}
		if filter.Status != nil && doc.Status != *filter.Status {
			continue
		}
		doc.Lines = slices.Clone(doc.Lines)
		result = append(result, doc)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].Number > result[j].Number
	})
	return result, nil
}

func (t *txStore) SaveDocument(_ context.Context, doc domain.Document) error {
	if err := t.writable(); err != nil {
		return err
	}
	docs, err := t.documentsOf(doc.Kind)
	if err != nil {
		return err
	}
	for _, existing := range docs {
		if existing.DocumentID == doc.DocumentID || existing.Number == doc.Number {
			return fmt.Errorf("%w: document %s", apperrors.ErrDuplicate, doc.Number)
		}
	}
	for _, line := range doc.Lines {
		if _, ok := t.st.items[line.ItemID]; !ok {
			return apperrors.NewNotFoundError("stock item", line.ItemID)
		}
	}
	if doc.CounterpartyID != nil {
		partyKind := domain.CustomerParty
		if doc.Kind == domain.PurchaseDocument {
			partyKind = domain.SupplierParty
		}
		if _, ok := t.st.parties[partyKind][*doc.CounterpartyID]; !ok {
			return apperrors.NewNotFoundError(string(partyKind), *doc.CounterpartyID)
		}
	}
	doc.Lines = slices.Clone(doc.Lines)
	docs[doc.DocumentID] = doc
	return nil
}

func (t *txStore) LockDocument(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
	return t.FindDocumentByID(ctx, kind, documentID)
}

func (t *txStore) UpdateDocumentStatus(_ context.Context, doc domain.Document) error {
	if err := t.writable(); err != nil {
		return err
	}
	docs, err := t.documentsOf(doc.Kind)
	if err != nil {
		return err
	}
	current, ok := docs[doc.DocumentID]
	if !ok {
		return apperrors.NewNotFoundError(string(doc.Kind), doc.DocumentID)
	}
	current.Status = doc.Status
	current.CancelledAt = doc.CancelledAt
	current.CancelledBy = doc.CancelledBy
	current.LastUpdatedAt = doc.LastUpdatedAt
	current.LastUpdatedBy = doc.LastUpdatedBy
	docs[doc.DocumentID] = current
	return nil
}
