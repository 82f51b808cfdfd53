package services

import (
	"context"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/SscSPs/partsledger/internal/dto"
)

// PartySvcFacade manages customers and suppliers together with their ledgers.
type PartySvcFacade interface {
	CreateParty(ctx context.Context, kind domain.PartyKind, req dto.CreatePartyRequest, userID string) (*domain.Party, error)
	GetParty(ctx context.Context, kind domain.PartyKind, partyID string) (*domain.Party, error)
	ListParties(ctx context.Context, kind domain.PartyKind, params dto.ListPartiesParams) ([]domain.Party, error)
	UpdateParty(ctx context.Context, kind domain.PartyKind, partyID string, req dto.UpdatePartyRequest, userID string) (*domain.Party, error)
	DeactivateParty(ctx context.Context, kind domain.PartyKind, partyID string, userID string) error
	GetStatement(ctx context.Context, kind domain.PartyKind, partyID string) (*domain.PartyStatement, error)
}
