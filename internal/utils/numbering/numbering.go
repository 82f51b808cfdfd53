// Package numbering formats the gapless document numbers handed out by the sequence table.
package numbering

import "fmt"

// Sequence names one counter row and the prefix its numbers carry.
type Sequence struct {
	Name   string
	Prefix string
}

var (
	Voucher  = Sequence{Name: "voucher", Prefix: "VCH"}
	Sale     = Sequence{Name: "sale", Prefix: "INV"}
	Purchase = Sequence{Name: "purchase", Prefix: "PUR"}
)

// Format renders value as PREFIX-000042.
func (s Sequence) Format(value int64) string {
	return fmt.Sprintf("%s-%06d", s.Prefix, value)
}
