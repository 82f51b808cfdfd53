package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/SscSPs/partsledger/internal/utils/pagination"
)

const (
	defaultVoucherPageSize = 50
	maxVoucherPageSize     = 500
)

type voucherService struct {
	BaseService
}

// NewVoucherService creates a new voucher service.
func NewVoucherService(uow portsrepo.UnitOfWork) portssvc.VoucherSvcFacade {
	return &voucherService{BaseService: BaseService{UOW: uow}}
}

var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

func (s *voucherService) PostVoucher(ctx context.Context, req dto.PostVoucherRequest, userID string) (*domain.Voucher, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := requirePositive("amount", req.Amount); err != nil {
		return nil, err
	}

	draft := voucherDraft{
		Date:           req.Date,
		Type:           req.Type,
		DebitLedgerID:  req.DebitLedgerID,
		CreditLedgerID: req.CreditLedgerID,
		Amount:         req.Amount,
		Narration:      normalizeOptional(req.Narration),
		ReferenceNo:    normalizeOptional(req.ReferenceNo),
	}

	var voucher *domain.Voucher
	err := s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		voucher, err = postVoucherInTx(ctx, store, draft, userID, s.now())
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post voucher",
			slog.String("debit_ledger_id", req.DebitLedgerID),
			slog.String("credit_ledger_id", req.CreditLedgerID))
		return nil, err
	}

	s.LogInfo(ctx, "Voucher posted successfully",
		slog.String("voucher_id", voucher.VoucherID),
		slog.String("voucher_no", voucher.VoucherNo),
		slog.String("amount", voucher.Amount.String()))
	return voucher, nil
}

func (s *voucherService) CancelVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error) {
	var voucher *domain.Voucher
	err := s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		voucher, err = reverseVoucherInTx(ctx, store, voucherID, false, userID, s.now())
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to cancel voucher", slog.String("voucher_id", voucherID))
		return nil, err
	}
	s.LogInfo(ctx, "Voucher cancelled", slog.String("voucher_id", voucherID), slog.String("voucher_no", voucher.VoucherNo))
	return voucher, nil
}

func (s *voucherService) GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	var voucher *domain.Voucher
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		voucher, err = store.Vouchers().FindVoucherByID(ctx, voucherID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return voucher, nil
}

// ListVouchers returns one page of vouchers, newest first, and a token for the next page.
func (s *voucherService) ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultVoucherPageSize
	}
	if limit > maxVoucherPageSize {
		limit = maxVoucherPageSize
	}

	filter := domain.VoucherFilter{
		From:     params.From,
		To:       params.To,
		LedgerID: params.LedgerID,
		Limit:    limit + 1,
	}
	if params.Type != "" {
		t := domain.VoucherType(params.Type)
		filter.Type = &t
	}
	if params.NextToken != nil && *params.NextToken != "" {
		cursor, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		filter.After = &cursor
	}

	var vouchers []domain.Voucher
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		vouchers, err = store.Vouchers().ListVouchers(ctx, filter)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list vouchers")
		return nil, err
	}

	resp := &dto.ListVouchersResponse{}
	if len(vouchers) > limit {
		vouchers = vouchers[:limit]
		token := pagination.EncodeToken(pagination.CursorOf(vouchers[len(vouchers)-1]))
		resp.NextToken = &token
	}
	resp.Vouchers = dto.ToVoucherResponses(vouchers)
	return resp, nil
}
