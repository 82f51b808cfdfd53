package services

import (
	"context"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/SscSPs/partsledger/internal/dto"
)

// VoucherSvcFacade posts, cancels and lists vouchers.
type VoucherSvcFacade interface {
	PostVoucher(ctx context.Context, req dto.PostVoucherRequest, userID string) (*domain.Voucher, error)
	CancelVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error)
	GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)
	ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error)
}
