package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/partsledger/internal/core/domain"
)

const timeFormat = time.RFC3339Nano

// EncodeToken turns the last voucher of a page into an opaque next-page token.
func EncodeToken(cursor domain.VoucherCursor) string {
	tokenStr := fmt.Sprintf("%s|%s|%s", cursor.Date.Format(timeFormat), cursor.CreatedAt.Format(timeFormat), cursor.VoucherNo)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (domain.VoucherCursor, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return domain.VoucherCursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 {
		return domain.VoucherCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return domain.VoucherCursor{}, fmt.Errorf("invalid pagination token format (voucher date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return domain.VoucherCursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return domain.VoucherCursor{Date: date, CreatedAt: createdAt, VoucherNo: parts[2]}, nil
}

// CursorOf returns the cursor positioned at v.
func CursorOf(v domain.Voucher) domain.VoucherCursor {
	return domain.VoucherCursor{Date: v.Date, CreatedAt: v.CreatedAt, VoucherNo: v.VoucherNo}
}
