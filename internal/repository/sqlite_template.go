package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avendriel/accord/internal/domain"
)

// SQLiteTemplateRepo implements TemplateRepo using a SQLite database.
type SQLiteTemplateRepo struct {
	db *sql.DB
}

// NewSQLiteTemplateRepo creates a new SQLiteTemplateRepo.
func NewSQLiteTemplateRepo(db *sql.DB) *SQLiteTemplateRepo {
	return &SQLiteTemplateRepo{db: db}
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (r *SQLiteTemplateRepo) Create(ctx context.Context, t *domain.Template) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	query := `INSERT INTO templates (
		id, name, mode, classification, acceptance, billing_cycle,
		duration_value, duration_unit, grace_value, grace_unit,
		plan_kind, plan_installments, currency, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		t.ID,
		t.Name,
		string(t.Mode),
		string(t.Classification),
		string(t.Acceptance),
		string(t.BillingCycle),
		t.Duration.Value,
		string(t.Duration.Unit),
		t.Grace.Value,
		string(t.Grace.Unit),
		string(t.PaymentPlan.Kind),
		t.PaymentPlan.Installments,
		t.Currency,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}

	if err := insertChildren(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing template: %w", err)
	}
	committed = true
	return nil
}

func (r *SQLiteTemplateRepo) Update(ctx context.Context, t *domain.Template) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	query := `UPDATE templates SET
		name = ?, mode = ?, classification = ?, acceptance = ?, billing_cycle = ?,
		duration_value = ?, duration_unit = ?, grace_value = ?, grace_unit = ?,
		plan_kind = ?, plan_installments = ?, currency = ?, updated_at = ?
	WHERE id = ?`
	res, err := tx.ExecContext(ctx, query,
		t.Name,
		string(t.Mode),
		string(t.Classification),
		string(t.Acceptance),
		string(t.BillingCycle),
		t.Duration.Value,
		string(t.Duration.Unit),
		t.Grace.Value,
		string(t.Grace.Unit),
		string(t.PaymentPlan.Kind),
		t.PaymentPlan.Installments,
		t.Currency,
		nowUTC(),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	// Children are replaced wholesale; they have no identity of their own.
	if _, err := tx.ExecContext(ctx, `DELETE FROM template_items WHERE template_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clearing template items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM template_taxes WHERE template_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clearing template taxes: %w", err)
	}
	if err := insertChildren(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing template update: %w", err)
	}
	committed = true
	return nil
}

func insertChildren(ctx context.Context, tx *sql.Tx, t *domain.Template) error {
	for i, li := range t.LineItems {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO template_items (id, template_id, block_ref, description, unit_price, quantity, cycle, ad_hoc, order_index)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			li.ID, t.ID, li.BlockRef, li.Description, li.UnitPriceMinor, li.Quantity, string(li.Cycle), boolToInt(li.AdHoc), i,
		)
		if err != nil {
			return fmt.Errorf("inserting template item: %w", err)
		}
	}
	for i, rate := range t.TaxRates {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO template_taxes (template_id, code, rate_bps, order_index) VALUES (?, ?, ?, ?)`,
			t.ID, rate.Code, rate.RateBps, i,
		)
		if err != nil {
			return fmt.Errorf("inserting template tax: %w", err)
		}
	}
	return nil
}

func (r *SQLiteTemplateRepo) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	return r.getWhere(ctx, "id = ?", id)
}

func (r *SQLiteTemplateRepo) GetByName(ctx context.Context, name string) (*domain.Template, error) {
	return r.getWhere(ctx, "name = ?", name)
}

func (r *SQLiteTemplateRepo) getWhere(ctx context.Context, where string, arg any) (*domain.Template, error) {
	query := `SELECT id, name, mode, classification, acceptance, billing_cycle,
		duration_value, duration_unit, grace_value, grace_unit,
		plan_kind, plan_installments, currency, created_at, updated_at
	FROM templates WHERE ` + where
	t, err := scanTemplate(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTemplateRepo) List(ctx context.Context) ([]*domain.Template, error) {
	query := `SELECT id, name, mode, classification, acceptance, billing_cycle,
		duration_value, duration_unit, grace_value, grace_unit,
		plan_kind, plan_installments, currency, created_at, updated_at
	FROM templates ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	var templates []*domain.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating templates: %w", err)
	}

	for _, t := range templates {
		if err := r.loadChildren(ctx, t); err != nil {
			return nil, err
		}
	}
	return templates, nil
}

func (r *SQLiteTemplateRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*domain.Template, error) {
	var t domain.Template
	var mode, classification, acceptance, billingCycle string
	var durationUnit, graceUnit, planKind string
	var createdAt, updatedAt string

	err := row.Scan(
		&t.ID, &t.Name, &mode, &classification, &acceptance, &billingCycle,
		&t.Duration.Value, &durationUnit, &t.Grace.Value, &graceUnit,
		&planKind, &t.PaymentPlan.Installments, &t.Currency, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning template: %w", err)
	}

	t.Mode = domain.Mode(mode)
	t.Classification = domain.Classification(classification)
	t.Acceptance = domain.AcceptanceMethod(acceptance)
	t.BillingCycle = domain.BillingCycleMode(billingCycle)
	t.Duration.Unit = domain.DurationUnit(durationUnit)
	t.Grace.Unit = domain.DurationUnit(graceUnit)
	t.PaymentPlan.Kind = domain.PaymentPlanKind(planKind)

	if t.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}

func (r *SQLiteTemplateRepo) loadChildren(ctx context.Context, t *domain.Template) error {
	itemRows, err := r.db.QueryContext(ctx,
		`SELECT id, block_ref, description, unit_price, quantity, cycle, ad_hoc
		FROM template_items WHERE template_id = ? ORDER BY order_index`, t.ID)
	if err != nil {
		return fmt.Errorf("listing template items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var li domain.LineItem
		var cycle string
		var adHoc int
		if err := itemRows.Scan(&li.ID, &li.BlockRef, &li.Description, &li.UnitPriceMinor, &li.Quantity, &cycle, &adHoc); err != nil {
			return fmt.Errorf("scanning template item: %w", err)
		}
		li.Cycle = domain.ItemCycle(cycle)
		li.AdHoc = adHoc != 0
		t.LineItems = append(t.LineItems, li)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("iterating template items: %w", err)
	}

	taxRows, err := r.db.QueryContext(ctx,
		`SELECT code, rate_bps FROM template_taxes WHERE template_id = ? ORDER BY order_index`, t.ID)
	if err != nil {
		return fmt.Errorf("listing template taxes: %w", err)
	}
	defer taxRows.Close()

	for taxRows.Next() {
		var rate domain.TaxRate
		if err := taxRows.Scan(&rate.Code, &rate.RateBps); err != nil {
			return fmt.Errorf("scanning template tax: %w", err)
		}
		t.TaxRates = append(t.TaxRates, rate)
	}
	if err := taxRows.Err(); err != nil {
		return fmt.Errorf("iterating template taxes: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
