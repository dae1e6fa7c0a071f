package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"statadvisor/domain/core"
	"statadvisor/domain/recommendation"
	"statadvisor/internal/errors"
	"statadvisor/ports"

	"github.com/jmoiron/sqlx"
)

// recommendationJSON stores a Recommendation in a JSONB column
type recommendationJSON recommendation.Recommendation

// Value implements driver.Valuer interface
func (r recommendationJSON) Value() (driver.Value, error) {
	return json.Marshal(recommendation.Recommendation(r))
}

// Scan implements sql.Scanner interface
func (r *recommendationJSON) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	case nil:
		return fmt.Errorf("recommendation payload is NULL")
	default:
		return fmt.Errorf("unsupported recommendation payload type %T", value)
	}
	var rec recommendation.Recommendation
	if err := json.Unmarshal(bytes, &rec); err != nil {
		return err
	}
	*r = recommendationJSON(rec)
	return nil
}

type recommendationRow struct {
	ID                 string             `db:"id"`
	Fingerprint        string             `db:"dataset_fingerprint"`
	Purpose            string             `db:"purpose"`
	ValueColumn        sql.NullString     `db:"value_column"`
	GroupColumn        sql.NullString     `db:"group_column"`
	MethodID           string             `db:"method_id"`
	Confidence         float64            `db:"confidence"`
	AssumptionsSkipped bool               `db:"assumptions_skipped"`
	CatalogVersion     string             `db:"catalog_version"`
	Payload            recommendationJSON `db:"payload"`
	CreatedAt          time.Time          `db:"created_at"`
}

func (row recommendationRow) toRecord() *recommendation.Record {
	return &recommendation.Record{
		ID:                 core.RecommendationID(row.ID),
		Fingerprint:        core.DatasetFingerprint(row.Fingerprint),
		Purpose:            recommendation.Purpose(row.Purpose),
		ValueColumn:        row.ValueColumn.String,
		GroupColumn:        row.GroupColumn.String,
		AssumptionsSkipped: row.AssumptionsSkipped,
		CatalogVersion:     row.CatalogVersion,
		Recommendation:     recommendation.Recommendation(row.Payload),
		CreatedAt:          core.NewTimestamp(row.CreatedAt.UTC()),
	}
}

const selectRecommendation = `
	SELECT id, dataset_fingerprint, purpose, value_column, group_column, method_id,
	       confidence, assumptions_skipped, catalog_version, payload, created_at
	FROM recommendation_log`

// RecommendationRepositoryImpl implements RecommendationRepository for PostgreSQL
type RecommendationRepositoryImpl struct {
	db *sqlx.DB
}

// NewRecommendationRepository creates a new PostgreSQL recommendation repository
func NewRecommendationRepository(db *sqlx.DB) ports.RecommendationRepository {
	return &RecommendationRepositoryImpl{db: db}
}

// Save inserts a record; records are immutable so a repeated id is an error
func (r *RecommendationRepositoryImpl) Save(ctx context.Context, record *recommendation.Record) error {
	if record == nil || record.ID == "" {
		return errors.ValidationError("recommendation record requires an id")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recommendation_log (id, dataset_fingerprint, purpose, value_column, group_column,
			method_id, confidence, assumptions_skipped, catalog_version, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, record.ID.String(), record.Fingerprint.String(), string(record.Purpose),
		nullable(record.ValueColumn), nullable(record.GroupColumn),
		record.Recommendation.Method.ID, record.Recommendation.Confidence,
		record.AssumptionsSkipped, record.CatalogVersion,
		recommendationJSON(record.Recommendation), record.CreatedAt.Time())
	if err != nil {
		return errors.DatabaseError("failed to save recommendation", err)
	}
	return nil
}

// Get retrieves a record by id
func (r *RecommendationRepositoryImpl) Get(ctx context.Context, id core.RecommendationID) (*recommendation.Record, error) {
	var row recommendationRow
	err := r.db.GetContext(ctx, &row, selectRecommendation+` WHERE id = $1`, id.String())
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithCode(errors.CodeNotFound, core.ErrRecommendationNotFound)
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load recommendation", err)
	}
	return row.toRecord(), nil
}

// ListByFingerprint returns the newest records for one dataset snapshot
func (r *RecommendationRepositoryImpl) ListByFingerprint(ctx context.Context, fingerprint core.DatasetFingerprint, limit int) ([]*recommendation.Record, error) {
	query := selectRecommendation + `
	WHERE dataset_fingerprint = $1
	ORDER BY created_at DESC`

	args := []interface{}{fingerprint.String()}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	var rows []recommendationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.DatabaseError("failed to list recommendations", err)
	}

	records := make([]*recommendation.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
