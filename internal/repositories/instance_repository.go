package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rds-portal/internal/models"
)

const instanceColumns = `id, database_name, expected_size, engine, instance_class, allocated_storage,
		aws_instance_identifier, endpoint, port, database_username, database_password,
		service_account_username, app_username, status, created_by, created_at, updated_at`

// ListOptions narrows and pages an owner-scoped listing.
type ListOptions struct {
	Search   string // case-insensitive substring match on database_name
	Status   string // exact status match
	Page     int    // 1-based
	PageSize int
}

type InstanceRepository struct {
	pool *pgxpool.Pool
}

func NewInstanceRepository(pool *pgxpool.Pool) *InstanceRepository {
	return &InstanceRepository{pool: pool}
}

func (r *InstanceRepository) Create(ctx context.Context, instance *models.Instance) error {
	instance.Prepare()

	query := `
		INSERT INTO rds_instances (id, database_name, expected_size, engine, instance_class, allocated_storage,
			aws_instance_identifier, endpoint, port, database_username, database_password,
			service_account_username, app_username, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	now := time.Now()
	instance.CreatedAt = now
	instance.UpdatedAt = now

	_, err := r.pool.Exec(ctx, query,
		instance.ID,
		instance.DatabaseName,
		instance.ExpectedSize,
		instance.Engine,
		instance.InstanceClass,
		instance.AllocatedStorage,
		instance.AWSInstanceIdentifier,
		instance.Endpoint,
		instance.Port,
		instance.DatabaseUsername,
		instance.DatabasePassword,
		instance.ServiceAccountUsername,
		instance.AppUsername,
		instance.Status,
		instance.CreatedBy,
		instance.CreatedAt,
		instance.UpdatedAt,
	)

	return err
}

// GetByIDAndOwner returns nil, nil when no instance matches both the id and
// the owner, so foreign instances are indistinguishable from missing ones.
func (r *InstanceRepository) GetByIDAndOwner(ctx context.Context, id uuid.UUID, owner string) (*models.Instance, error) {
	query := fmt.Sprintf(`SELECT %s FROM rds_instances WHERE id = $1 AND created_by = $2`, instanceColumns)

	instance, err := scanInstance(r.pool.QueryRow(ctx, query, id, owner))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return instance, nil
}

// List returns one page of the owner's instances, newest first, plus the
// total number of rows matching the filters.
func (r *InstanceRepository) List(ctx context.Context, owner string, opts ListOptions) ([]models.Instance, int, error) {
	where := `created_by = $1`
	args := []interface{}{owner}

	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		where += fmt.Sprintf(` AND database_name ILIKE $%d`, len(args))
	}
	if opts.Status != "" {
		args = append(args, opts.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM rds_instances WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}
	offset := (opts.Page - 1) * opts.PageSize

	args = append(args, opts.PageSize, offset)
	query := fmt.Sprintf(`SELECT %s FROM rds_instances WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		instanceColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	instances := []models.Instance{}
	for rows.Next() {
		instance, err := scanInstance(rows)
		if err != nil {
			return nil, 0, err
		}
		instances = append(instances, *instance)
	}

	return instances, total, rows.Err()
}

func (r *InstanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM rds_instances WHERE id = $1`, id)
	return err
}

func (r *InstanceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE rds_instances
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, status, time.Now())
	return err
}

func (r *InstanceRepository) UpdateNetwork(ctx context.Context, id uuid.UUID, endpoint string, port int) error {
	query := `
		UPDATE rds_instances
		SET endpoint = $2, port = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, endpoint, port, time.Now())
	return err
}

// NameExists reports whether any instance, regardless of owner, already uses
// the name (case-insensitive).
func (r *InstanceRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM rds_instances WHERE LOWER(database_name) = LOWER($1))`
	err := r.pool.QueryRow(ctx, query, name).Scan(&exists)
	return exists, err
}

func (r *InstanceRepository) CountByOwner(ctx context.Context, owner string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM rds_instances WHERE created_by = $1`
	err := r.pool.QueryRow(ctx, query, owner).Scan(&count)
	return count, err
}

func (r *InstanceRepository) CountByOwnerAndStatus(ctx context.Context, owner, status string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM rds_instances WHERE created_by = $1 AND status = $2`
	err := r.pool.QueryRow(ctx, query, owner, status).Scan(&count)
	return count, err
}

// RecentByOwner returns up to limit instances created at or after since,
// newest first.
func (r *InstanceRepository) RecentByOwner(ctx context.Context, owner string, since time.Time, limit int) ([]models.Instance, error) {
	query := fmt.Sprintf(`SELECT %s FROM rds_instances
		WHERE created_by = $1 AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT $3`, instanceColumns)

	rows, err := r.pool.Query(ctx, query, owner, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instances := []models.Instance{}
	for rows.Next() {
		instance, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		instances = append(instances, *instance)
	}

	return instances, rows.Err()
}

func scanInstance(row pgx.Row) (*models.Instance, error) {
	var instance models.Instance
	err := row.Scan(
		&instance.ID,
		&instance.DatabaseName,
		&instance.ExpectedSize,
		&instance.Engine,
		&instance.InstanceClass,
		&instance.AllocatedStorage,
		&instance.AWSInstanceIdentifier,
		&instance.Endpoint,
		&instance.Port,
		&instance.DatabaseUsername,
		&instance.DatabasePassword,
		&instance.ServiceAccountUsername,
		&instance.AppUsername,
		&instance.Status,
		&instance.CreatedBy,
		&instance.CreatedAt,
		&instance.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &instance, nil
}
