package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"rds-portal/internal/forms"
	"rds-portal/internal/models"
	"rds-portal/internal/repositories"
	"rds-portal/internal/utils"
)

// PageSize is the fixed number of instances per listing page.
const PageSize = 10

// InstanceStore is the slice of the registry the lifecycle service needs.
type InstanceStore interface {
	Create(ctx context.Context, instance *models.Instance) error
	GetByIDAndOwner(ctx context.Context, id uuid.UUID, owner string) (*models.Instance, error)
	List(ctx context.Context, owner string, opts repositories.ListOptions) ([]models.Instance, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateNetwork(ctx context.Context, id uuid.UUID, endpoint string, port int) error
	NameExists(ctx context.Context, name string) (bool, error)
}

type InstanceService struct {
	instances   InstanceStore
	provisioner Provisioner
}

func NewInstanceService(instances InstanceStore, provisioner Provisioner) *InstanceService {
	return &InstanceService{
		instances:   instances,
		provisioner: provisioner,
	}
}

// InstancePage is one page of an owner's listing.
type InstancePage struct {
	Items      []models.Instance
	Total      int
	Page       int
	TotalPages int
}

// Create validates the form, persists the instance in creating state with
// generated credentials, then provisions synchronously. The returned field
// errors are non-empty on validation failure (no side effects in that case).
// A provisioning failure still leaves the record persisted, in failed status.
func (s *InstanceService) Create(ctx context.Context, owner string, form *forms.InstanceForm) (*models.Instance, forms.Errors, error) {
	fieldErrs, err := form.Validate(ctx, s.instances)
	if err != nil {
		return nil, nil, err
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	suffix, err := utils.RandomHex(4)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate instance identifier: %w", err)
	}
	password, err := utils.GeneratePassword(16)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate database password: %w", err)
	}

	name := strings.ToLower(form.DatabaseName)
	instance := &models.Instance{
		DatabaseName:           form.DatabaseName,
		ExpectedSize:           form.ExpectedSize,
		Engine:                 form.Engine,
		InstanceClass:          form.InstanceClass,
		AllocatedStorage:       form.StorageGB(),
		AWSInstanceIdentifier:  fmt.Sprintf("rds-%s-%s", name, suffix),
		ServiceAccountUsername: "svc_" + name,
		AppUsername:            "app_" + name,
		DatabasePassword:       password,
		Status:                 models.StatusCreating,
		CreatedBy:              owner,
	}

	if err := s.instances.Create(ctx, instance); err != nil {
		// A concurrent create can slip past the NameExists check; the unique
		// index is the backstop, and it surfaces as the same field message.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, forms.Errors{"database_name": "A database with this name already exists."}, nil
		}
		return nil, nil, fmt.Errorf("failed to save instance: %w", err)
	}

	if err := s.provisioner.Provision(ctx, instance); err != nil {
		instance.Status = models.StatusFailed
		if updateErr := s.instances.UpdateStatus(ctx, instance.ID, models.StatusFailed); updateErr != nil {
			return instance, nil, fmt.Errorf("failed to record provisioning failure: %w", updateErr)
		}
		return instance, nil, err
	}

	if err := s.instances.UpdateNetwork(ctx, instance.ID, instance.Endpoint, instance.Port); err != nil {
		return instance, nil, fmt.Errorf("failed to record instance endpoint: %w", err)
	}
	instance.Status = models.StatusAvailable
	if err := s.instances.UpdateStatus(ctx, instance.ID, models.StatusAvailable); err != nil {
		return instance, nil, fmt.Errorf("failed to record instance status: %w", err)
	}

	return instance, nil, nil
}

// Get returns the owner's instance or ErrNotFound.
func (s *InstanceService) Get(ctx context.Context, owner string, id uuid.UUID) (*models.Instance, error) {
	instance, err := s.instances.GetByIDAndOwner(ctx, id, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load instance: %w", err)
	}
	if instance == nil {
		return nil, ErrNotFound
	}
	return instance, nil
}

// List returns one page of the owner's instances, newest first.
func (s *InstanceService) List(ctx context.Context, owner, search, status string, page int) (*InstancePage, error) {
	if page < 1 {
		page = 1
	}
	if status != "" && !models.ValidStatus(status) {
		status = ""
	}

	items, total, err := s.instances.List(ctx, owner, repositories.ListOptions{
		Search:   search,
		Status:   status,
		Page:     page,
		PageSize: PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}

	totalPages := (total + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return &InstancePage{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// Delete deprovisions the owner's instance and removes the record only when
// deprovisioning succeeds. On ErrDeprovisionFailed the record is untouched.
func (s *InstanceService) Delete(ctx context.Context, owner string, id uuid.UUID) (*models.Instance, error) {
	instance, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if err := s.provisioner.Deprovision(ctx, instance); err != nil {
		return instance, err
	}

	if err := s.instances.Delete(ctx, instance.ID); err != nil {
		return instance, fmt.Errorf("failed to remove instance record: %w", err)
	}

	return instance, nil
}
