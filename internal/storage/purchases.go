package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tagsnap/tagsnap/internal/common"
	"github.com/tagsnap/tagsnap/internal/model"
	"github.com/tagsnap/tagsnap/internal/service"
)

// SavePurchase persists a scanned purchase with its labels and line
// items. A missing ID is generated; a duplicate ID is an error.
func (s *SQLiteStorage) SavePurchase(ctx context.Context, purchase *model.Purchase) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePurchase(purchase); err != nil {
		return err
	}

	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}
	docType := purchase.DocType
	if docType == "" {
		docType = model.ModePriceTag
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO purchases (
			id, date, product_name,
			original_amount, original_currency,
			converted_amount, converted_currency,
			image_path, location, trip_name, doc_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		purchase.ID,
		purchase.Date,
		purchase.ProductName,
		purchase.Original.Amount,
		purchase.Original.Currency,
		purchase.Converted.Amount,
		purchase.Converted.Currency,
		purchase.ImagePath,
		purchase.Location,
		purchase.TripName,
		string(docType),
	)
	if err != nil {
		return fmt.Errorf("failed to insert purchase %s: %w", purchase.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: purchase %s", common.ErrDuplicateEntry, purchase.ID)
	}

	for _, label := range purchase.Labels {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO purchase_labels (purchase_id, label) VALUES (?, ?)`,
			purchase.ID, label); err != nil {
			return fmt.Errorf("failed to insert label %q: %w", label, err)
		}
	}

	for _, item := range purchase.Items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO purchase_items (purchase_id, name, price, quantity, currency, category)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			purchase.ID, item.Name, item.Price, quantity, item.Currency, item.Category); err != nil {
			return fmt.Errorf("failed to insert line item %q: %w", item.Name, err)
		}
	}

	return tx.Commit()
}

// GetPurchases returns the purchase history, newest first, narrowed by
// the filter.
func (s *SQLiteStorage) GetPurchases(ctx context.Context, filter service.PurchaseFilter) ([]model.Purchase, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, date, product_name,
		       original_amount, original_currency,
		       converted_amount, converted_currency,
		       image_path, location, trip_name, doc_type
		FROM purchases
		WHERE 1=1
	`
	args := []any{}

	if filter.Since != nil {
		query += " AND date >= ?"
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		query += " AND date <= ?"
		args = append(args, *filter.Until)
	}
	if filter.Label != "" {
		query += ` AND EXISTS (
			SELECT 1 FROM purchase_labels pl
			WHERE pl.purchase_id = purchases.id AND pl.label = ? COLLATE NOCASE
		)`
		args = append(args, filter.Label)
	}
	if filter.Location != "" {
		query += " AND location = ? COLLATE NOCASE"
		args = append(args, filter.Location)
	}
	if filter.Trip != "" {
		query += " AND trip_name = ? COLLATE NOCASE"
		args = append(args, filter.Trip)
	}
	if filter.Search != "" {
		query += ` AND (instr(lower(product_name), lower(?)) > 0 OR EXISTS (
			SELECT 1 FROM purchase_labels pl
			WHERE pl.purchase_id = purchases.id AND instr(lower(pl.label), lower(?)) > 0
		))`
		args = append(args, filter.Search, filter.Search)
	}

	query += " ORDER BY date DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var purchases []model.Purchase
	for rows.Next() {
		purchase, scanErr := scanPurchase(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		purchases = append(purchases, purchase)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate purchases: %w", err)
	}

	for i := range purchases {
		if err := s.attachDetails(ctx, &purchases[i]); err != nil {
			return nil, err
		}
	}

	return purchases, nil
}

// GetPurchaseByID retrieves a single purchase with labels and items.
func (s *SQLiteStorage) GetPurchaseByID(ctx context.Context, id string) (*model.Purchase, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, date, product_name,
		       original_amount, original_currency,
		       converted_amount, converted_currency,
		       image_path, location, trip_name, doc_type
		FROM purchases
		WHERE id = ?
	`, id)

	purchase, err := scanPurchase(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: purchase %s", common.ErrNotFound, id)
		}
		return nil, err
	}
	if err := s.attachDetails(ctx, &purchase); err != nil {
		return nil, err
	}
	return &purchase, nil
}

// DeletePurchase removes a purchase; labels and items cascade.
func (s *SQLiteStorage) DeletePurchase(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM purchases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: purchase %s", common.ErrNotFound, id)
	}
	return nil
}

// GetPurchaseCount returns the total number of saved purchases.
func (s *SQLiteStorage) GetPurchaseCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM purchases`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count purchases: %w", err)
	}
	return count, nil
}

// AddLabel attaches a label to a purchase. Adding a label the purchase
// already carries is a no-op.
func (s *SQLiteStorage) AddLabel(ctx context.Context, purchaseID, label string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(purchaseID, "purchaseID"); err != nil {
		return err
	}
	if err := validateString(label, "label"); err != nil {
		return err
	}
	if err := s.requirePurchase(ctx, purchaseID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO purchase_labels (purchase_id, label) VALUES (?, ?)`,
		purchaseID, strings.TrimSpace(label))
	if err != nil {
		return fmt.Errorf("failed to add label %q: %w", label, err)
	}
	return nil
}

// RemoveLabel detaches a label from a purchase.
func (s *SQLiteStorage) RemoveLabel(ctx context.Context, purchaseID, label string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(purchaseID, "purchaseID"); err != nil {
		return err
	}
	if err := validateString(label, "label"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM purchase_labels WHERE purchase_id = ? AND label = ? COLLATE NOCASE`,
		purchaseID, label)
	if err != nil {
		return fmt.Errorf("failed to remove label %q: %w", label, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: label %q on purchase %s", common.ErrNotFound, label, purchaseID)
	}
	return nil
}

// GetLabels returns every distinct label in use, alphabetically.
func (s *SQLiteStorage) GetLabels(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT label FROM purchase_labels ORDER BY label COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

// SetLocation records where a purchase was made. An empty location
// clears it.
func (s *SQLiteStorage) SetLocation(ctx context.Context, purchaseID, location string) error {
	return s.updateField(ctx, purchaseID, "location", location)
}

// SetTrip assigns a purchase to a named trip. An empty name detaches it.
func (s *SQLiteStorage) SetTrip(ctx context.Context, purchaseID, tripName string) error {
	return s.updateField(ctx, purchaseID, "trip_name", tripName)
}

func (s *SQLiteStorage) updateField(ctx context.Context, purchaseID, column, value string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(purchaseID, "purchaseID"); err != nil {
		return err
	}

	// column is one of our own identifiers, never user input
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE purchases SET %s = ? WHERE id = ?`, column),
		strings.TrimSpace(value), purchaseID)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", column, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: purchase %s", common.ErrNotFound, purchaseID)
	}
	return nil
}

// GetTrips summarizes purchases grouped by trip name, most recent trip
// first. Purchases without a trip are excluded.
func (s *SQLiteStorage) GetTrips(ctx context.Context) ([]service.TripSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT trip_name, COUNT(*), MIN(date), MAX(date)
		FROM purchases
		WHERE trip_name != ''
		GROUP BY trip_name
		ORDER BY MAX(date) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var trips []service.TripSummary
	for rows.Next() {
		var trip service.TripSummary
		if err := rows.Scan(&trip.Name, &trip.Purchases, &trip.FirstDate, &trip.LastDate); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}

	for i := range trips {
		totals, totalsErr := s.tripTotals(ctx, trips[i].Name)
		if totalsErr != nil {
			return nil, totalsErr
		}
		trips[i].Totals = totals
	}

	return trips, nil
}

// tripTotals sums converted amounts per currency for one trip.
func (s *SQLiteStorage) tripTotals(ctx context.Context, tripName string) ([]model.Money, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT converted_currency, SUM(converted_amount)
		FROM purchases
		WHERE trip_name = ?
		GROUP BY converted_currency
		ORDER BY converted_currency
	`, tripName)
	if err != nil {
		return nil, fmt.Errorf("failed to query trip totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var totals []model.Money
	for rows.Next() {
		var m model.Money
		if err := rows.Scan(&m.Currency, &m.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan trip total: %w", err)
		}
		totals = append(totals, m)
	}
	return totals, rows.Err()
}

// requirePurchase verifies the purchase exists.
func (s *SQLiteStorage) requirePurchase(ctx context.Context, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM purchases WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: purchase %s", common.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to look up purchase %s: %w", id, err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPurchase(row scanner) (model.Purchase, error) {
	var p model.Purchase
	var docType string
	err := row.Scan(
		&p.ID,
		&p.Date,
		&p.ProductName,
		&p.Original.Amount,
		&p.Original.Currency,
		&p.Converted.Amount,
		&p.Converted.Currency,
		&p.ImagePath,
		&p.Location,
		&p.TripName,
		&docType,
	)
	if err != nil {
		return model.Purchase{}, fmt.Errorf("failed to scan purchase: %w", err)
	}
	p.DocType = model.DetectMode(docType)
	return p, nil
}

// attachDetails loads labels and line items for a scanned purchase.
func (s *SQLiteStorage) attachDetails(ctx context.Context, p *model.Purchase) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label FROM purchase_labels WHERE purchase_id = ? ORDER BY label COLLATE NOCASE`,
		p.ID)
	if err != nil {
		return fmt.Errorf("failed to query labels for %s: %w", p.ID, err)
	}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			_ = rows.Close()
			return fmt.Errorf("failed to scan label: %w", err)
		}
		p.Labels = append(p.Labels, label)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("failed to iterate labels: %w", err)
	}
	_ = rows.Close()

	itemRows, err := s.db.QueryContext(ctx,
		`SELECT name, price, quantity, currency, category FROM purchase_items WHERE purchase_id = ? ORDER BY id`,
		p.ID)
	if err != nil {
		return fmt.Errorf("failed to query items for %s: %w", p.ID, err)
	}
	defer func() { _ = itemRows.Close() }()
	for itemRows.Next() {
		var item model.LineItem
		if err := itemRows.Scan(&item.Name, &item.Price, &item.Quantity, &item.Currency, &item.Category); err != nil {
			return fmt.Errorf("failed to scan line item: %w", err)
		}
		p.Items = append(p.Items, item)
	}
	return itemRows.Err()
}
