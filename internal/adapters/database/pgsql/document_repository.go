package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type documentRepository struct {
	db DBTX
}

var _ portsrepo.DocumentRepositoryFacade = (*documentRepository)(nil)

// documentTables names the header and line tables of one document kind.
type documentTables struct {
	header       string
	lines        string
	idColumn     string
	numberColumn string
	partyColumn  string
	nameColumn   string
	dateColumn   string
}

var documentTablesByKind = map[domain.DocumentKind]documentTables{
	domain.SaleDocument: {
		header:       "sales",
		lines:        "sale_items",
		idColumn:     "sale_id",
		numberColumn: "invoice_no",
		partyColumn:  "customer_id",
		nameColumn:   "customer_name",
		dateColumn:   "sale_date",
	},
	domain.PurchaseDocument: {
		header:       "purchases",
		lines:        "purchase_items",
		idColumn:     "purchase_id",
		numberColumn: "purchase_no",
		partyColumn:  "supplier_id",
		nameColumn:   "supplier_name",
		dateColumn:   "purchase_date",
	},
}

func tablesFor(kind domain.DocumentKind) (documentTables, error) {
	t, ok := documentTablesByKind[kind]
	if !ok {
		return documentTables{}, fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidation, kind)
	}
	return t, nil
}

func (t documentTables) headerColumns() string {
	return fmt.Sprintf(`%s, %s, %s, %s, %s, subtotal, tax_amount, discount_amount, shipping_cost, total,
		payment_method, status, notes, cancelled_at, cancelled_by, created_at, created_by, last_updated_at, last_updated_by`,
		t.idColumn, t.numberColumn, t.partyColumn, t.nameColumn, t.dateColumn)
}

func scanDocumentHeader(row rowScanner, kind domain.DocumentKind) (domain.Document, error) {
	doc := domain.Document{Kind: kind}
	err := row.Scan(
		&doc.DocumentID,
		&doc.Number,
		&doc.CounterpartyID,
		&doc.CounterpartyName,
		&doc.Date,
		&doc.Subtotal,
		&doc.TaxAmount,
		&doc.DiscountAmount,
		&doc.ShippingCost,
		&doc.Total,
		&doc.PaymentMethod,
		&doc.Status,
		&doc.Notes,
		&doc.CancelledAt,
		&doc.CancelledBy,
		&doc.CreatedAt,
		&doc.CreatedBy,
		&doc.LastUpdatedAt,
		&doc.LastUpdatedBy,
	)
	return doc, err
}

func (r *documentRepository) loadLines(ctx context.Context, t documentTables, documentID string) ([]domain.DocumentLine, error) {
	query := fmt.Sprintf(`
		SELECT line_id, %[1]s, line_no, item_id, quantity, rate, tax_rate, discount, line_total
		FROM %[2]s WHERE %[1]s = $1 ORDER BY line_no`, t.idColumn, t.lines)
	rows, err := r.db.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines of %s: %w", documentID, err)
	}
	defer rows.Close()

	lines := make([]domain.DocumentLine, 0)
	for rows.Next() {
		var l domain.DocumentLine
		if err := rows.Scan(&l.LineID, &l.DocumentID, &l.LineNo, &l.ItemID, &l.Quantity, &l.Rate, &l.TaxRate, &l.Discount, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan document line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document lines: %w", err)
	}
	return lines, nil
}

func (r *documentRepository) findOne(ctx context.Context, kind domain.DocumentKind, documentID string, lock bool) (*domain.Document, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, t.headerColumns(), t.header, t.idColumn)
	if lock {
		query += ` FOR UPDATE`
	}
	doc, err := scanDocumentHeader(r.db.QueryRow(ctx, query, documentID), kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(string(kind), documentID)
		}
		return nil, fmt.Errorf("failed to find %s %s: %w", t.header, documentID, err)
	}
	if doc.Lines, err = r.loadLines(ctx, t, documentID); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) FindDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
	return r.findOne(ctx, kind, documentID, false)
}

// LockDocument loads the document and holds its header row lock until the transaction ends.
func (r *documentRepository) LockDocument(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
	return r.findOne(ctx, kind, documentID, true)
}

// ListDocuments returns matching documents with their lines, newest first.
func (r *documentRepository) ListDocuments(ctx context.Context, kind domain.DocumentKind, filter domain.DocumentFilter) ([]domain.Document, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	var w whereBuilder
	if filter.From != nil {
		w.add(t.dateColumn+" >= ?", *filter.From)
	}
	if filter.To != nil {
		w.add(t.dateColumn+" <= ?", *filter.To)
	}
	if filter.CounterpartyID != "" {
		w.add(t.partyColumn+" = ?", filter.CounterpartyID)
	}
	if filter.Status != nil {
		w.add("status = ?", string(*filter.Status))
	}
	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s DESC, %s DESC`,
		t.headerColumns(), t.header, w.clause(), t.dateColumn, t.numberColumn)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.header, err)
	}
	docs := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocumentHeader(rows, kind)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan %s row: %w", t.header, err)
		}
		docs = append(docs, doc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", t.header, err)
	}

	// Lines are loaded after the header cursor is closed; a transaction runs one query at a time.
	for i := range docs {
		if docs[i].Lines, err = r.loadLines(ctx, t, docs[i].DocumentID); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// SaveDocument inserts the header, then every line in one batch.
func (r *documentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	t, err := tablesFor(doc.Kind)
	if err != nil {
		return err
	}
	header := fmt.Sprintf(`INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		t.header, t.headerColumns())
	_, err = r.db.Exec(ctx, header,
		doc.DocumentID,
		doc.Number,
		doc.CounterpartyID,
		doc.CounterpartyName,
		doc.Date,
		doc.Subtotal,
		doc.TaxAmount,
		doc.DiscountAmount,
		doc.ShippingCost,
		doc.Total,
		string(doc.PaymentMethod),
		string(doc.Status),
		doc.Notes,
		doc.CancelledAt,
		doc.CancelledBy,
		doc.CreatedAt,
		doc.CreatedBy,
		doc.LastUpdatedAt,
		doc.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "save "+string(doc.Kind)+" "+doc.Number)
	}
	if len(doc.Lines) == 0 {
		return nil
	}

	lineQuery := fmt.Sprintf(`INSERT INTO %s (line_id, %s, line_no, item_id, quantity, rate, tax_rate, discount, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, t.lines, t.idColumn)
	batch := &pgx.Batch{}
	for _, l := range doc.Lines {
		batch.Queue(lineQuery, l.LineID, doc.DocumentID, l.LineNo, l.ItemID, l.Quantity, l.Rate, l.TaxRate, l.Discount, l.LineTotal)
	}
	br := r.db.SendBatch(ctx, batch)
	defer br.Close()
	for _, l := range doc.Lines {
		if _, err := br.Exec(); err != nil {
			return mapPgError(err, fmt.Sprintf("save line %d of %s", l.LineNo, doc.Number))
		}
	}
	return nil
}

func (r *documentRepository) UpdateDocumentStatus(ctx context.Context, doc domain.Document) error {
	t, err := tablesFor(doc.Kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $2, cancelled_at = $3, cancelled_by = $4, last_updated_at = $5, last_updated_by = $6
		WHERE %s = $1`, t.header, t.idColumn)
	ct, err := r.db.Exec(ctx, query, doc.DocumentID, string(doc.Status), doc.CancelledAt, doc.CancelledBy, doc.LastUpdatedAt, doc.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, "update "+string(doc.Kind)+" "+doc.Number)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(string(doc.Kind), doc.DocumentID)
	}
	return nil
}
