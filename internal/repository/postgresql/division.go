package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hadir-app/hadir-backend/internal/domain/division"
	"github.com/hadir-app/hadir-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type divisionRepository struct {
	db *database.DB
}

func NewDivisionRepository(db *database.DB) division.DivisionRepository {
	return &divisionRepository{db: db}
}

const divisionSelect = `
	SELECT
		d.id, d.name, d.description, d.supervisor_id, d.created_at, d.updated_at,
		s.name AS supervisor_name,
		(SELECT COUNT(*) FROM users m WHERE m.division_id = d.id) AS member_count
	FROM divisions d
	LEFT JOIN users s ON s.id = d.supervisor_id
`

func scanDivision(row pgx.Row) (division.Division, error) {
	var d division.Division
	err := row.Scan(
		&d.ID, &d.Name, &d.Description, &d.SupervisorID, &d.CreatedAt, &d.UpdatedAt,
		&d.SupervisorName, &d.MemberCount,
	)
	return d, err
}

func mapDivisionWriteError(err error) error {
	if database.IsUniqueViolation(err, "divisions_name_key") {
		return division.ErrDivisionNameExists
	}
	if database.IsForeignKeyViolation(err) {
		return division.ErrInvalidSupervisor
	}
	return err
}

// Create implements division.DivisionRepository.
func (r *divisionRepository) Create(ctx context.Context, d division.Division) (division.Division, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO divisions (name, description, supervisor_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, d.Name, d.Description, d.SupervisorID).Scan(&id)
	if err != nil {
		if mapped := mapDivisionWriteError(err); mapped != err {
			return division.Division{}, mapped
		}
		return division.Division{}, fmt.Errorf("failed to create division: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Update implements division.DivisionRepository.
func (r *divisionRepository) Update(ctx context.Context, d division.Division) (division.Division, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE divisions
		SET name = $1, description = $2, supervisor_id = $3, updated_at = NOW()
		WHERE id = $4
	`, d.Name, d.Description, d.SupervisorID, d.ID)
	if err != nil {
		if mapped := mapDivisionWriteError(err); mapped != err {
			return division.Division{}, mapped
		}
		return division.Division{}, fmt.Errorf("failed to update division: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return division.Division{}, division.ErrDivisionNotFound
	}

	return r.GetByID(ctx, d.ID)
}

// Delete implements division.DivisionRepository. The member check and the
// delete share one transaction so a concurrent assignment cannot slip in.
func (r *divisionRepository) Delete(ctx context.Context, id string) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		var locked string
		if err := tx.QueryRow(ctx, `SELECT id FROM divisions WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return division.ErrDivisionNotFound
			}
			return fmt.Errorf("failed to lock division: %w", err)
		}

		var members int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE division_id = $1`, id).Scan(&members); err != nil {
			return fmt.Errorf("failed to count division members: %w", err)
		}
		if members > 0 {
			return division.ErrDivisionHasMembers
		}

		if _, err := tx.Exec(ctx, `DELETE FROM divisions WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete division: %w", err)
		}
		return nil
	})
}

// GetByID implements division.DivisionRepository.
func (r *divisionRepository) GetByID(ctx context.Context, id string) (division.Division, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDivision(q.QueryRow(ctx, divisionSelect+" WHERE d.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return division.Division{}, division.ErrDivisionNotFound
		}
		return division.Division{}, fmt.Errorf("failed to get division: %w", err)
	}
	return d, nil
}

// List implements division.DivisionRepository.
func (r *divisionRepository) List(ctx context.Context) ([]division.Division, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, divisionSelect+" ORDER BY d.name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list divisions: %w", err)
	}
	defer rows.Close()

	var divisions []division.Division
	for rows.Next() {
		d, err := scanDivision(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan division: %w", err)
		}
		divisions = append(divisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate divisions: %w", err)
	}
	return divisions, nil
}

// CountMembers implements division.DivisionRepository.
func (r *divisionRepository) CountMembers(ctx context.Context, id string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE division_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count division members: %w", err)
	}
	return n, nil
}
