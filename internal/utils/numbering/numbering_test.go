package numbering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceFormat(t *testing.T) {
	assert.Equal(t, "VCH-000001", Voucher.Format(1))
	assert.Equal(t, "INV-000042", Sale.Format(42))
	assert.Equal(t, "PUR-1234567", Purchase.Format(1234567))
}
