package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"greenjobs/internal/domain/measures"
)

// MeasuresRepository is the optional relational sink for measured adverts
// and aggregate rows. CSV remains the primary output; the sink exists so
// downstream dashboards can query runs without re-parsing files.
type MeasuresRepository interface {
	EnsureSchema(ctx context.Context) error
	SaveMeasures(ctx context.Context, runID uuid.UUID, rows []measures.GreenMeasures) error
	SaveAggregates(ctx context.Context, runID uuid.UUID, rows []measures.AggregateRow) error
}

type PostgresMeasuresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresMeasuresRepository(pool *pgxpool.Pool) *PostgresMeasuresRepository {
	return &PostgresMeasuresRepository{pool: pool}
}

func (r *PostgresMeasuresRepository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS green_measures (
			advert_id    TEXT NOT NULL,
			run_id       UUID NOT NULL,
			region       TEXT,
			itl_1        TEXT,
			itl_2        TEXT,
			itl_3        TEXT,
			mean_salary  DOUBLE PRECISION,
			skills       JSONB,
			occupation   JSONB,
			industry     JSONB,
			measured_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (advert_id, run_id)
		)`,
		`CREATE TABLE IF NOT EXISTS green_aggregates (
			run_id       UUID NOT NULL,
			group_by     TEXT NOT NULL,
			group_key    TEXT NOT NULL,
			group_label  TEXT,
			num_adverts  INTEGER NOT NULL,
			prop_adverts DOUBLE PRECISION NOT NULL,
			row_data     JSONB NOT NULL,
			measured_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (run_id, group_by, group_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_green_measures_run ON green_measures (run_id)`,
	}
	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (r *PostgresMeasuresRepository) SaveMeasures(ctx context.Context, runID uuid.UUID, rows []measures.GreenMeasures) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, m := range rows {
		skillsJSON, err := marshalNullable(m.Skills)
		if err != nil {
			return fmt.Errorf("advert %s: %w", m.AdvertID, err)
		}
		occJSON, err := marshalNullable(m.Occupation)
		if err != nil {
			return fmt.Errorf("advert %s: %w", m.AdvertID, err)
		}
		indJSON, err := marshalNullable(m.Industry)
		if err != nil {
			return fmt.Errorf("advert %s: %w", m.AdvertID, err)
		}

		batch.Queue(
			`INSERT INTO green_measures
				(advert_id, run_id, region, itl_1, itl_2, itl_3, mean_salary, skills, occupation, industry)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (advert_id, run_id) DO UPDATE SET
				region = EXCLUDED.region,
				itl_1 = EXCLUDED.itl_1,
				itl_2 = EXCLUDED.itl_2,
				itl_3 = EXCLUDED.itl_3,
				mean_salary = EXCLUDED.mean_salary,
				skills = EXCLUDED.skills,
				occupation = EXCLUDED.occupation,
				industry = EXCLUDED.industry,
				measured_at = now()`,
			m.AdvertID, runID, m.Region, m.ITL1Code, m.ITL2Code, m.ITL3Code,
			m.MeanSalary, skillsJSON, occJSON, indJSON,
		)
	}

	return r.sendBatch(ctx, batch)
}

func (r *PostgresMeasuresRepository) SaveAggregates(ctx context.Context, runID uuid.UUID, rows []measures.AggregateRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, a := range rows {
		rowJSON, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("group %s: %w", a.Key, err)
		}
		batch.Queue(
			`INSERT INTO green_aggregates
				(run_id, group_by, group_key, group_label, num_adverts, prop_adverts, row_data)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (run_id, group_by, group_key) DO UPDATE SET
				group_label = EXCLUDED.group_label,
				num_adverts = EXCLUDED.num_adverts,
				prop_adverts = EXCLUDED.prop_adverts,
				row_data = EXCLUDED.row_data,
				measured_at = now()`,
			runID, string(a.GroupBy), a.Key, a.KeyLabel, a.NumAdverts, a.PropAdverts, rowJSON,
		)
	}

	return r.sendBatch(ctx, batch)
}

func (r *PostgresMeasuresRepository) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch statement %d: %w", i, err)
		}
	}
	return nil
}

// marshalNullable keeps a missing axis as SQL NULL instead of the JSON
// string "null".
func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
