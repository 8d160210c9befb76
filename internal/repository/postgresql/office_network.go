package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hadir-app/hadir-backend/internal/domain/officenetwork"
	"github.com/hadir-app/hadir-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type officeNetworkRepository struct {
	db *database.DB
}

func NewOfficeNetworkRepository(db *database.DB) officenetwork.OfficeNetworkRepository {
	return &officeNetworkRepository{db: db}
}

const officeNetworkColumns = `
	id, name, ip_range_start, ip_range_end, latitude, longitude, radius_meters,
	is_active, created_at, updated_at
`

func scanOfficeNetwork(row pgx.Row) (officenetwork.OfficeNetwork, error) {
	var n officenetwork.OfficeNetwork
	err := row.Scan(
		&n.ID, &n.Name, &n.IPRangeStart, &n.IPRangeEnd, &n.Latitude, &n.Longitude, &n.RadiusMeters,
		&n.IsActive, &n.CreatedAt, &n.UpdatedAt,
	)
	return n, err
}

// Create implements officenetwork.OfficeNetworkRepository.
func (r *officeNetworkRepository) Create(ctx context.Context, n officenetwork.OfficeNetwork) (officenetwork.OfficeNetwork, error) {
	q := GetQuerier(ctx, r.db)

	created, err := scanOfficeNetwork(q.QueryRow(ctx, `
		INSERT INTO office_networks (name, ip_range_start, ip_range_end, latitude, longitude, radius_meters, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+officeNetworkColumns,
		n.Name, n.IPRangeStart, n.IPRangeEnd, n.Latitude, n.Longitude, n.RadiusMeters, n.IsActive,
	))
	if err != nil {
		return officenetwork.OfficeNetwork{}, fmt.Errorf("failed to create office network: %w", err)
	}
	return created, nil
}

// Update implements officenetwork.OfficeNetworkRepository.
func (r *officeNetworkRepository) Update(ctx context.Context, n officenetwork.OfficeNetwork) (officenetwork.OfficeNetwork, error) {
	q := GetQuerier(ctx, r.db)

	updated, err := scanOfficeNetwork(q.QueryRow(ctx, `
		UPDATE office_networks
		SET name = $1, ip_range_start = $2, ip_range_end = $3, latitude = $4, longitude = $5,
			radius_meters = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING `+officeNetworkColumns,
		n.Name, n.IPRangeStart, n.IPRangeEnd, n.Latitude, n.Longitude, n.RadiusMeters, n.IsActive, n.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return officenetwork.OfficeNetwork{}, officenetwork.ErrOfficeNetworkNotFound
		}
		return officenetwork.OfficeNetwork{}, fmt.Errorf("failed to update office network: %w", err)
	}
	return updated, nil
}

// Delete implements officenetwork.OfficeNetworkRepository.
func (r *officeNetworkRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM office_networks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete office network: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return officenetwork.ErrOfficeNetworkNotFound
	}
	return nil
}

// GetByID implements officenetwork.OfficeNetworkRepository.
func (r *officeNetworkRepository) GetByID(ctx context.Context, id string) (officenetwork.OfficeNetwork, error) {
	q := GetQuerier(ctx, r.db)

	n, err := scanOfficeNetwork(q.QueryRow(ctx, "SELECT "+officeNetworkColumns+" FROM office_networks WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return officenetwork.OfficeNetwork{}, officenetwork.ErrOfficeNetworkNotFound
		}
		return officenetwork.OfficeNetwork{}, fmt.Errorf("failed to get office network: %w", err)
	}
	return n, nil
}

// List implements officenetwork.OfficeNetworkRepository.
func (r *officeNetworkRepository) List(ctx context.Context) ([]officenetwork.OfficeNetwork, error) {
	return r.list(ctx, "SELECT "+officeNetworkColumns+" FROM office_networks ORDER BY name ASC")
}

// ListActive implements officenetwork.OfficeNetworkRepository.
func (r *officeNetworkRepository) ListActive(ctx context.Context) ([]officenetwork.OfficeNetwork, error) {
	return r.list(ctx, "SELECT "+officeNetworkColumns+" FROM office_networks WHERE is_active = TRUE ORDER BY name ASC")
}

func (r *officeNetworkRepository) list(ctx context.Context, query string) ([]officenetwork.OfficeNetwork, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list office networks: %w", err)
	}
	defer rows.Close()

	var networks []officenetwork.OfficeNetwork
	for rows.Next() {
		n, err := scanOfficeNetwork(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan office network: %w", err)
		}
		networks = append(networks, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate office networks: %w", err)
	}
	return networks, nil
}
