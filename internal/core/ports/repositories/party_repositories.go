package repositories

import (
	"context"

	"github.com/SscSPs/partsledger/internal/core/domain"
)

// PartyReader defines read operations for customers and suppliers.
// Returned parties carry the balance of their ledger.
type PartyReader interface {
	FindPartyByID(ctx context.Context, kind domain.PartyKind, partyID string) (*domain.Party, error)
	ListParties(ctx context.Context, kind domain.PartyKind, filter domain.PartyFilter) ([]domain.Party, error)
}

// PartyWriter defines write operations for customers and suppliers.
type PartyWriter interface {
	SaveParty(ctx context.Context, party domain.Party) error
	UpdateParty(ctx context.Context, party domain.Party) error
}

// PartyRepositoryFacade combines all party-related repository interfaces.
type PartyRepositoryFacade interface {
	PartyReader
	PartyWriter
}
