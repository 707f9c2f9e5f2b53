// Package reference управляет справочниками отделов и оборудования.
package reference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/equiptrack/internal/lib/sl"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

const (
	departmentsCacheKey = "reference:departments"
	departmentsCacheTTL = 10 * time.Minute
)

// Repository хранилище справочников.
type Repository interface {
	CreateDepartment(ctx context.Context, d models.Department) error
	GetDepartment(ctx context.Context, id string) (*models.Department, error)
	ListDepartments(ctx context.Context) ([]*models.Department, error)
	DeleteDepartment(ctx context.Context, id string) error
	CreateMachine(ctx context.Context, m models.Machine) error
	ListMachines(ctx context.Context, departmentID string) ([]*models.Machine, error)
	DeleteMachine(ctx context.Context, id string) error
}

// Cache кэш списка отделов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service операции над справочниками.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// New создаёт Service. cache может быть nil, тогда список отделов всегда читается из хранилища.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// CreateDepartment создаёт отдел. Повтор имени возвращает models.ErrConflict.
func (s *Service) CreateDepartment(ctx context.Context, name string, actor *models.User) (*models.Department, error) {
	const op = "reference.CreateDepartment"
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w: name is required", op, models.ErrValidation)
	}
	d := models.Department{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: s.now().UTC(),
		CreatedBy: actor.ID,
	}
	if err := s.repo.CreateDepartment(ctx, d); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateDepartments(ctx)
	return &d, nil
}

// ListDepartments возвращает отделы, по возможности из кэша.
func (s *Service) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	const op = "reference.ListDepartments"
	if s.cache != nil {
		var cached []*models.Department
		found, err := s.cache.Get(ctx, departmentsCacheKey, &cached)
		if err != nil {
			s.log.Warn("failed to read departments from cache", sl.Err(err))
		}
		if found {
			return cached, nil
		}
	}

	departments, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, departmentsCacheKey, departments, departmentsCacheTTL); err != nil {
			s.log.Warn("failed to cache departments", sl.Err(err))
		}
	}
	return departments, nil
}

// DeleteDepartment удаляет отдел, если на него не ссылается оборудование.
func (s *Service) DeleteDepartment(ctx context.Context, id string) error {
	const op = "reference.DeleteDepartment"
	if err := s.repo.DeleteDepartment(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateDepartments(ctx)
	return nil
}

// CreateMachine создаёт оборудование, запоминая текущее имя отдела.
func (s *Service) CreateMachine(ctx context.Context, req models.MachineRequest, actor *models.User) (*models.Machine, error) {
	const op = "reference.CreateMachine"
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w: name is required", op, models.ErrValidation)
	}
	dept, err := s.repo.GetDepartment(ctx, req.DepartmentID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%s: department %s: %w", op, req.DepartmentID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m := models.Machine{
		ID:             uuid.NewString(),
		Name:           name,
		DepartmentID:   dept.ID,
		DepartmentName: dept.Name,
		CreatedAt:      s.now().UTC(),
		CreatedBy:      actor.ID,
	}
	if err := s.repo.CreateMachine(ctx, m); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &m, nil
}

// ListMachines возвращает оборудование, при непустом departmentID только одного отдела.
func (s *Service) ListMachines(ctx context.Context, departmentID string) ([]*models.Machine, error) {
	const op = "reference.ListMachines"
	machines, err := s.repo.ListMachines(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return machines, nil
}

// DeleteMachine удаляет оборудование.
func (s *Service) DeleteMachine(ctx context.Context, id string) error {
	const op = "reference.DeleteMachine"
	if err := s.repo.DeleteMachine(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) invalidateDepartments(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, departmentsCacheKey); err != nil {
		s.log.Warn("failed to invalidate departments cache", sl.Err(err))
	}
}
