// Package memory is an in-process implementation of the repository ports.
// Units of work are serialised and applied to a copy of the state that
// replaces the live state only when the unit succeeds.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
)

type state struct {
	ledgers       map[string]domain.Ledger
	vouchers      map[string]domain.Voucher
	items         map[string]domain.StockItem
	categories    map[string]domain.Category
	stockTxns     []domain.StockTransaction
	stockSeq      int64
	documents     map[domain.DocumentKind]map[string]domain.Document
	parties       map[domain.PartyKind]map[string]domain.Party
	makes         map[string]domain.CarMake
	models        map[string]domain.CarModel
	compatibility map[string]domain.ItemCompatibility
	audit         []domain.AuditLogEntry
	sequences     map[string]int64
}

func newState() *state {
	return &state{
		ledgers:    make(map[string]domain.Ledger),
		vouchers:   make(map[string]domain.Voucher),
		items:      make(map[string]domain.StockItem),
		categories: make(map[string]domain.Category),
		documents: map[domain.DocumentKind]map[string]domain.Document{
			domain.SaleDocument:     make(map[string]domain.Document),
			domain.PurchaseDocument: make(map[string]domain.Document),
		},
		parties: map[domain.PartyKind]map[string]domain.Party{
			domain.CustomerParty: make(map[string]domain.Party),
			domain.SupplierParty: make(map[string]domain.Party),
		},
		makes:         make(map[string]domain.CarMake),
		models:        make(map[string]domain.CarModel),
		compatibility: make(map[string]domain.ItemCompatibility),
		sequences:     make(map[string]int64),
	}
}

// clone copies every collection. Records are values and are replaced, never
// mutated in place, so a shallow copy per collection is enough.
func (s *state) clone() *state {
	c := &state{
		ledgers:       maps.Clone(s.ledgers),
		vouchers:      maps.Clone(s.vouchers),
		items:         maps.Clone(s.items),
		categories:    maps.Clone(s.categories),
		stockTxns:     slices.Clone(s.stockTxns),
		stockSeq:      s.stockSeq,
		documents:     make(map[domain.DocumentKind]map[string]domain.Document, len(s.documents)),
		parties:       make(map[domain.PartyKind]map[string]domain.Party, len(s.parties)),
		makes:         maps.Clone(s.makes),
		models:        maps.Clone(s.models),
		compatibility: maps.Clone(s.compatibility),
		audit:         slices.Clone(s.audit),
		sequences:     maps.Clone(s.sequences),
	}
	for k, v := range s.documents {
		c.documents[k] = maps.Clone(v)
	}
	for k, v := range s.parties {
		c.parties[k] = maps.Clone(v)
	}
	return c
}

// Store holds the whole dataset in memory.
type Store struct {
	mu sync.RWMutex
	st *state
}

// New creates an empty store.
func New() *Store {
	return &Store{st: newState()}
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

// WithinTx runs fn against a private copy of the state and publishes it if fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(ctx, &txStore{st: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

// View runs fn against the live state under a read lock.
func (s *Store) View(ctx context.Context, fn portsrepo.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(ctx, &txStore{st: s.st, readOnly: true})
}

// txStore implements every repository port over one state snapshot.
type txStore struct {
	st       *state
	readOnly bool
}

var _ portsrepo.Store = (*txStore)(nil)

func (t *txStore) Ledgers() portsrepo.LedgerRepositoryFacade      { return t }
func (t *txStore) Vouchers() portsrepo.VoucherRepositoryFacade    { return t }
func (t *txStore) Stock() portsrepo.StockRepositoryFacade         { return t }
func (t *txStore) Documents() portsrepo.DocumentRepositoryFacade  { return t }
func (t *txStore) Parties() portsrepo.PartyRepositoryFacade       { return t }
func (t *txStore) Vehicles() portsrepo.VehicleRepositoryFacade    { return t }
func (t *txStore) Audit() portsrepo.AuditRepositoryFacade         { return t }
func (t *txStore) Sequences() portsrepo.SequenceRepository        { return t }
func (t *txStore) Categories() portsrepo.CategoryRepositoryFacade { return t }

func (t *txStore) writable() error {
	if t.readOnly {
		return fmt.Errorf("%w: write attempted in a read-only view", apperrors.ErrInternal)
	}
	return nil
}

// NextValue increments and returns the named counter, starting at 1.
func (t *txStore) NextValue(_ context.Context, name string) (int64, error) {
	if err := t.writable(); err != nil {
		return 0, err
	}
	t.st.sequences[name]++
	return t.st.sequences[name], nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func optionalContainsFold(haystack *string, needle string) bool {
	return haystack != nil && containsFold(*haystack, needle)
}
