package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"consorcio-simulator/domain"
)

// CatalogRepositoryPostgres reads the catalog from the consorcios table.
// The position column keeps the fixture's insertion order.
type CatalogRepositoryPostgres struct {
	db *sql.DB
}

// OpenCatalogPostgres connects to dsn, creates the schema if needed and seeds
// it with seed when the table is empty.
func OpenCatalogPostgres(ctx context.Context, dsn string, seed []domain.Plan) (*CatalogRepositoryPostgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	r := &CatalogRepositoryPostgres{db: db}
	if err := r.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if err := r.seed(ctx, seed); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	return r, nil
}

func (r *CatalogRepositoryPostgres) Close() error {
	return r.db.Close()
}

func (r *CatalogRepositoryPostgres) ensureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS consorcios (
    position            SERIAL PRIMARY KEY,
    id                  INTEGER NOT NULL,
    moto                TEXT NOT NULL,
    valor_total         NUMERIC(12,2) NOT NULL,
    quantidade_parcelas INTEGER NOT NULL,
    parcela_mensal      NUMERIC(12,2) NOT NULL,
    prazo               INTEGER NOT NULL,
    status              TEXT NOT NULL
);
`)
	return err
}

func (r *CatalogRepositoryPostgres) seed(ctx context.Context, plans []domain.Plan) error {
	var cnt int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM consorcios`).Scan(&cnt); err != nil {
		return err
	}
	if cnt > 0 {
		return nil
	}

	for _, p := range plans {
		_, err := r.db.ExecContext(ctx, `
INSERT INTO consorcios (id, moto, valor_total, quantidade_parcelas, parcela_mensal, prazo, status)
VALUES ($1,$2,$3,$4,$5,$6,$7);
`,
			p.ID,
			p.ItemDescription,
			p.TotalValue,
			p.InstallmentCount,
			p.MonthlyInstallmentValue,
			p.TermMonths,
			string(p.Status),
		)
		if err != nil {
			return err
		}
	}

	log.Printf("catalog: seeded %d consórcios", len(plans))
	return nil
}

const selectPlans = `
SELECT id, moto, valor_total, quantidade_parcelas, parcela_mensal, prazo, status
FROM consorcios
`

func (r *CatalogRepositoryPostgres) ListAll(ctx context.Context) ([]domain.Plan, error) {
	rows, err := r.db.QueryContext(ctx, selectPlans+`ORDER BY position ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []domain.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *CatalogRepositoryPostgres) GetByID(ctx context.Context, id int) (domain.Plan, bool, error) {
	row := r.db.QueryRowContext(ctx, selectPlans+`WHERE id = $1 ORDER BY position ASC LIMIT 1;`, id)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return domain.Plan{}, false, nil
	}
	if err != nil {
		return domain.Plan{}, false, err
	}
	return p, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(s rowScanner) (domain.Plan, error) {
	var p domain.Plan
	var status string
	if err := s.Scan(
		&p.ID,
		&p.ItemDescription,
		&p.TotalValue,
		&p.InstallmentCount,
		&p.MonthlyInstallmentValue,
		&p.TermMonths,
		&status,
	); err != nil {
		return domain.Plan{}, err
	}
	st, err := domain.ParseStatus(status)
	if err != nil {
		return domain.Plan{}, err
	}
	p.Status = st
	return p, nil
}
