package repositories

import (
	"context"

	"github.com/SscSPs/partsledger/internal/core/domain"
)

// VoucherReader defines read operations for vouchers.
type VoucherReader interface {
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)
	ListVouchers(ctx context.Context, filter domain.VoucherFilter) ([]domain.Voucher, error)
}

// VoucherWriter defines write operations for vouchers.
type VoucherWriter interface {
	SaveVoucher(ctx context.Context, voucher domain.Voucher) error
	LockVoucher(ctx context.Context, voucherID string) (*domain.Voucher, error)
	UpdateVoucherStatus(ctx context.Context, voucher domain.Voucher) error
}

// VoucherRepositoryFacade combines all voucher-related repository interfaces.
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherWriter
}
