package pgsql

import (
	"context"
	"fmt"

	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
)

type sequenceRepository struct {
	db DBTX
}

var _ portsrepo.SequenceRepository = (*sequenceRepository)(nil)

// NextValue bumps the named counter. The upsert holds the counter's row lock
// until commit, so concurrent callers queue and a rollback leaves no gap.
func (r *sequenceRepository) NextValue(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO document_sequences (name, last_value)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value;
	`
	var value int64
	if err := r.db.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to allocate next %s value: %w", name, err)
	}
	return value, nil
}
