package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// CreateDepartment сохраняет отдел. Повтор имени возвращает models.ErrConflict.
func (s *Storage) CreateDepartment(ctx context.Context, d models.Department) error {
	const op = "storage.CreateDepartment"
	if err := checkContext(ctx, op); err != nil {
		return err
	}

	query := `INSERT INTO departments (id, name, created_at, created_by)
			  VALUES (:id, :name, :created_at, :created_by)`
	if _, err := s.DB.NamedExecContext(ctx, query, d); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

// GetDepartment возвращает отдел по идентификатору.
func (s *Storage) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	const op = "storage.GetDepartment"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	var d models.Department
	query := `SELECT id, name, created_at, created_by FROM departments WHERE id = $1`
	if err := s.DB.GetContext(ctx, &d, query, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &d, nil
}

// ListDepartments возвращает отделы, отсортированные по имени.
func (s *Storage) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	const op = "storage.ListDepartments"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	result := []*models.Department{}
	query := `SELECT id, name, created_at, created_by FROM departments ORDER BY name`
	if err := s.DB.SelectContext(ctx, &result, query); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteDepartment удаляет отдел. Если на отдел ссылается хотя бы одно оборудование,
// возвращается models.ErrConflict; отсутствующий отдел даёт models.ErrNotFound.
// Оборудование, добавленное между проверкой и удалением, ловит внешний ключ
// fk_machines_department.
func (s *Storage) DeleteDepartment(ctx context.Context, id string) error {
	const op = "storage.DeleteDepartment"
	if err := checkContext(ctx, op); err != nil {
		return err
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var machines int
	if err = tx.GetContext(ctx, &machines, `SELECT COUNT(*) FROM machines WHERE department_id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if machines > 0 {
		return fmt.Errorf("%s: %w: department has %d machine(s)", op, models.ErrConflict, machines)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w: department has machines", op, models.ErrConflict)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateMachine сохраняет оборудование. Несуществующий отдел даёт models.ErrNotFound.
func (s *Storage) CreateMachine(ctx context.Context, m models.Machine) error {
	const op = "storage.CreateMachine"
	if err := checkContext(ctx, op); err != nil {
		return err
	}

	query := `INSERT INTO machines (id, name, department_id, department_name, created_at, created_by)
			  VALUES (:id, :name, :department_id, :department_name, :created_at, :created_by)`
	if _, err := s.DB.NamedExecContext(ctx, query, m); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w: department %s", op, models.ErrNotFound, m.DepartmentID)
		}
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

// GetMachine возвращает оборудование по идентификатору.
func (s *Storage) GetMachine(ctx context.Context, id string) (*models.Machine, error) {
	const op = "storage.GetMachine"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	var m models.Machine
	query := `SELECT id, name, department_id, department_name, created_at, created_by
			  FROM machines WHERE id = $1`
	if err := s.DB.GetContext(ctx, &m, query, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &m, nil
}

// ListMachines возвращает оборудование; при непустом departmentID только для этого отдела.
func (s *Storage) ListMachines(ctx context.Context, departmentID string) ([]*models.Machine, error) {
	const op = "storage.ListMachines"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	result := []*models.Machine{}
	query := `SELECT id, name, department_id, department_name, created_at, created_by
			  FROM machines
			  WHERE ($1::text = '' OR department_id = $1)
			  ORDER BY name`
	if err := s.DB.SelectContext(ctx, &result, query, departmentID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteMachine удаляет оборудование.
func (s *Storage) DeleteMachine(ctx context.Context, id string) error {
	const op = "storage.DeleteMachine"
	if err := checkContext(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM machines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}
