package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
)

func (t *txStore) partiesOf(kind domain.PartyKind) (map[string]domain.Party, error) {
	parties, ok := t.st.parties[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown party kind %q", apperrors.ErrValidation, kind)
	}
	return parties, nil
}

// withBalance fills Balance from the party's ledger.
func (t *txStore) withBalance(p domain.Party) domain.Party {
	if l, ok := t.st.ledgers[p.LedgerID]; ok {
		p.Balance = l.Balance
	}
	return p
}

func (t *txStore) FindPartyByID(_ context.Context, kind domain.PartyKind, partyID string) (*domain.Party, error) {
	parties, err := t.partiesOf(kind)
	if err != nil {
		return nil, err
	}
	p, ok := parties[partyID]
	if !ok {
		return nil, apperrors.NewNotFoundError(string(kind), partyID)
	}
	p = t.withBalance(p)
	return &p, nil
}

func (t *txStore) ListParties(_ context.Context, kind domain.PartyKind, filter domain.PartyFilter) ([]domain.Party, error) {
	parties, err := t.partiesOf(kind)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Party, 0)
	for _, p := range parties {
		if !filter.IncludeInactive && !p.IsActive {
			continue
		}
		if filter.Search != "" && !containsFold(p.Name, filter.Search) && !optionalContainsFold(p.Phone, filter.Search) {
			continue
		}
		result = append(result, t.withBalance(p))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (t *txStore) SaveParty(_ context.Context, party domain.Party) error {
	if err := t.writable(); err != nil {
		return err
	}
	parties, err := t.partiesOf(party.Kind)
	if err != nil {
		return err
	}
	if _, exists := parties[party.PartyID]; exists {
		return fmt.Errorf("%w: %s %s", apperrors.ErrDuplicate, party.Kind, party.PartyID)
	}
	if _, ok := t.st.ledgers[party.LedgerID]; !ok {
		return apperrors.NewNotFoundError("ledger", party.LedgerID)
	}
	parties[party.PartyID] = party
	return nil
}

func (t *txStore) UpdateParty(_ context.Context, party domain.Party) error {
	if err := t.writable(); err != nil {
		return err
	}
	parties, err := t.partiesOf(party.Kind)
	if err != nil {
		return err
	}
	current, ok := parties[party.PartyID]
	if !ok {
		return apperrors.NewNotFoundError(string(party.Kind), party.PartyID)
	}
	party.LedgerID = current.LedgerID
	party.CreatedAt = current.CreatedAt
	party.CreatedBy = current.CreatedBy
	parties[party.PartyID] = party
	return nil
}
