package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// workOrderRow строка таблицы work_orders; чек-лист и теги хранятся в JSONB.
type workOrderRow struct {
	ID                string     `db:"id"`
	WOID              string     `db:"wo_id"`
	Title             string     `db:"title"`
	Type              string     `db:"type"`
	Priority          string     `db:"priority"`
	Status            string     `db:"status"`
	Assignee          *string    `db:"assignee"`
	AssigneeName      *string    `db:"assignee_name"`
	RequestedBy       string     `db:"requested_by"`
	RequestedByName   string     `db:"requested_by_name"`
	Site              string     `db:"site"`
	DepartmentID      *string    `db:"department_id"`
	DepartmentName    *string    `db:"department_name"`
	MachineID         *string    `db:"machine_id"`
	MachineName       *string    `db:"machine_name"`
	Location          *string    `db:"location"`
	DueDate           *time.Time `db:"due_date"`
	ScheduledStart    *time.Time `db:"scheduled_start"`
	ScheduledEnd      *time.Time `db:"scheduled_end"`
	EstimatedDuration *int       `db:"estimated_duration"`
	Description       *string    `db:"description"`
	Checklist         []byte     `db:"checklist"`
	Tags              []byte     `db:"tags"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	CompletedAt       *time.Time `db:"completed_at"`
}

const workOrderColumns = `id, wo_id, title, type, priority, status, assignee, assignee_name,
	requested_by, requested_by_name, site, department_id, department_name, machine_id, machine_name,
	location, due_date, scheduled_start, scheduled_end, estimated_duration, description,
	checklist, tags, created_at, updated_at, completed_at`

func toWorkOrderRow(wo *models.WorkOrder) (workOrderRow, error) {
	checklist := wo.Checklist
	if checklist == nil {
		checklist = []models.ChecklistItem{}
	}
	tags := wo.Tags
	if tags == nil {
		tags = []string{}
	}
	checklistJSON, err := json.Marshal(checklist)
	if err != nil {
		return workOrderRow{}, err
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return workOrderRow{}, err
	}
	return workOrderRow{
		ID:                wo.ID,
		WOID:              wo.WOID,
		Title:             wo.Title,
		Type:              string(wo.Type),
		Priority:          string(wo.Priority),
		Status:            string(wo.Status),
		Assignee:          wo.Assignee,
		AssigneeName:      wo.AssigneeName,
		RequestedBy:       wo.RequestedBy,
		RequestedByName:   wo.RequestedByName,
		Site:              wo.Site,
		DepartmentID:      wo.DepartmentID,
		DepartmentName:    wo.DepartmentName,
		MachineID:         wo.MachineID,
		MachineName:       wo.MachineName,
		Location:          wo.Location,
		DueDate:           wo.DueDate,
		ScheduledStart:    wo.ScheduledStart,
		ScheduledEnd:      wo.ScheduledEnd,
		EstimatedDuration: wo.EstimatedDuration,
		Description:       wo.Description,
		Checklist:         checklistJSON,
		Tags:              tagsJSON,
		CreatedAt:         wo.CreatedAt,
		UpdatedAt:         wo.UpdatedAt,
		CompletedAt:       wo.CompletedAt,
	}, nil
}

func (r workOrderRow) toModel() (*models.WorkOrder, error) {
	wo := &models.WorkOrder{
		ID:                r.ID,
		WOID:              r.WOID,
		Title:             r.Title,
		Type:              models.WorkOrderType(r.Type),
		Priority:          models.Priority(r.Priority),
		Status:            models.WorkOrderStatus(r.Status),
		Assignee:          r.Assignee,
		AssigneeName:      r.AssigneeName,
		RequestedBy:       r.RequestedBy,
		RequestedByName:   r.RequestedByName,
		Site:              r.Site,
		DepartmentID:      r.DepartmentID,
		DepartmentName:    r.DepartmentName,
		MachineID:         r.MachineID,
		MachineName:       r.MachineName,
		Location:          r.Location,
		DueDate:           r.DueDate,
		ScheduledStart:    r.ScheduledStart,
		ScheduledEnd:      r.ScheduledEnd,
		EstimatedDuration: r.EstimatedDuration,
		Description:       r.Description,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		CompletedAt:       r.CompletedAt,
		Checklist:         []models.ChecklistItem{},
		Tags:              []string{},
	}
	if len(r.Checklist) > 0 {
		if err := json.Unmarshal(r.Checklist, &wo.Checklist); err != nil {
			return nil, fmt.Errorf("decode checklist: %w", err)
		}
	}
	if len(r.Tags) > 0 {
		if err := json.Unmarshal(r.Tags, &wo.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return wo, nil
}

// NextWorkOrderSeq атомарно выдаёт следующий порядковый номер заказ-наряда за год.
//
// Первая выдача за год продолжает максимальный существующий номер с префиксом prefix,
// дальше значение увеличивается в строке счётчика одним upsert.
func (s *Storage) NextWorkOrderSeq(ctx context.Context, year int, prefix string) (int, error) {
	const op = "storage.NextWorkOrderSeq"
	if err := checkContext(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO work_order_counters (year, value)
			  VALUES ($1, COALESCE((
			      SELECT MAX(CAST(SUBSTRING(wo_id FROM LENGTH($2::text) + 1) AS INTEGER))
			      FROM work_orders
			      WHERE wo_id ~ ('^' || $2::text || '[0-9]+$')
			  ), 0) + 1)
			  ON CONFLICT (year) DO UPDATE SET value = work_order_counters.value + 1
			  RETURNING value`
	var seq int
	if err := s.DB.QueryRowxContext(ctx, query, year, prefix).Scan(&seq); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return seq, nil
}

// CreateWorkOrder сохраняет новый заказ-наряд.
func (s *Storage) CreateWorkOrder(ctx context.Context, wo *models.WorkOrder) error {
	const op = "storage.CreateWorkOrder"
	if err := checkContext(ctx, op); err != nil {
		return err
	}

	row, err := toWorkOrderRow(wo)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO work_orders (` + workOrderColumns + `)
			  VALUES (:id, :wo_id, :title, :type, :priority, :status, :assignee, :assignee_name,
			      :requested_by, :requested_by_name, :site, :department_id, :department_name,
			      :machine_id, :machine_name, :location, :due_date, :scheduled_start, :scheduled_end,
			      :estimated_duration, :description, :checklist, :tags, :created_at, :updated_at,
			      :completed_at)`
	if _, err = s.DB.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

// GetWorkOrder возвращает заказ-наряд по внутреннему идентификатору.
func (s *Storage) GetWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error) {
	const op = "storage.GetWorkOrder"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	var row workOrderRow
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id = $1`
	if err := s.DB.GetContext(ctx, &row, query, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	wo, err := row.toModel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return wo, nil
}

// GetWorkOrderByNumber возвращает заказ-наряд по номеру WO-YYYY-NNNN.
func (s *Storage) GetWorkOrderByNumber(ctx context.Context, woID string) (*models.WorkOrder, error) {
	const op = "storage.GetWorkOrderByNumber"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	var row workOrderRow
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE wo_id = $1`
	if err := s.DB.GetContext(ctx, &row, query, woID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	wo, err := row.toModel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return wo, nil
}

// ListWorkOrders возвращает все заказ-наряды, новые первыми.
func (s *Storage) ListWorkOrders(ctx context.Context) ([]*models.WorkOrder, error) {
	const op = "storage.ListWorkOrders"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	var rows []workOrderRow
	query := `SELECT ` + workOrderColumns + ` FROM work_orders ORDER BY created_at DESC`
	if err := s.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result := make([]*models.WorkOrder, 0, len(rows))
	for _, row := range rows {
		wo, err := row.toModel()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, wo)
	}
	return result, nil
}

// PatchWorkOrder применяет изменения одной командой UPDATE и возвращает строку после записи.
//
// В SET попадают только заданные поля и updated_at, поэтому параллельные патчи разных
// полей не затирают друг друга. completed_at ставится при переходе в Completed
// из другого статуса; без смены статуса устаревший Backlog заменяется на Scheduled.
func (s *Storage) PatchWorkOrder(ctx context.Context, id string, ch models.WorkOrderChanges) (*models.WorkOrder, error) {
	const op = "storage.PatchWorkOrder"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	var (
		sets []string
		args []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	set := func(column string, v any) {
		sets = append(sets, column+" = "+arg(v))
	}

	if ch.Title != nil {
		set("title", *ch.Title)
	}
	if ch.Priority != nil {
		set("priority", string(*ch.Priority))
	}
	if ch.Status != nil {
		status := arg(string(*ch.Status))
		now := arg(ch.UpdatedAt)
		sets = append(sets,
			"status = "+status+"::text",
			fmt.Sprintf("completed_at = CASE WHEN status <> '%s' AND %s::text = '%s' THEN %s::timestamptz ELSE completed_at END",
				models.StatusCompleted, status, models.StatusCompleted, now),
		)
	} else {
		sets = append(sets, fmt.Sprintf("status = CASE WHEN status = '%s' THEN '%s' ELSE status END",
			models.StatusLegacyBacklog, models.StatusScheduled))
	}
	if ch.Assignee != nil {
		var name any
		if ch.AssigneeName != nil {
			name = *ch.AssigneeName
		}
		set("assignee", *ch.Assignee)
		set("assignee_name", name)
	}
	if ch.DueDate != nil {
		set("due_date", *ch.DueDate)
	}
	if ch.ScheduledStart != nil {
		set("scheduled_start", *ch.ScheduledStart)
	}
	if ch.ScheduledEnd != nil {
		set("scheduled_end", *ch.ScheduledEnd)
	}
	if ch.EstimatedDuration != nil {
		set("estimated_duration", *ch.EstimatedDuration)
	}
	if ch.Description != nil {
		set("description", *ch.Description)
	}
	if ch.Tags != nil {
		tags := *ch.Tags
		if tags == nil {
			tags = []string{}
		}
		raw, err := json.Marshal(tags)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		set("tags", raw)
	}
	if ch.Checklist != nil {
		items := *ch.Checklist
		if items == nil {
			items = []models.ChecklistItem{}
		}
		raw, err := json.Marshal(items)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		set("checklist", raw)
	}
	set("updated_at", ch.UpdatedAt)

	query := `UPDATE work_orders SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + arg(id) + ` RETURNING ` + workOrderColumns

	var row workOrderRow
	if err := s.DB.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	wo, err := row.toModel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return wo, nil
}

// MigrateLegacyStatus заменяет устаревший статус Backlog на Scheduled.
// Возвращает true, если строка действительно была изменена.
func (s *Storage) MigrateLegacyStatus(ctx context.Context, id string) (bool, error) {
	const op = "storage.MigrateLegacyStatus"
	if err := checkContext(ctx, op); err != nil {
		return false, err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE work_orders SET status = $1 WHERE id = $2 AND status = $3`,
		string(models.StatusScheduled), id, string(models.StatusLegacyBacklog))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}

// DeleteWorkOrder удаляет заказ-наряд без возможности восстановления.
func (s *Storage) DeleteWorkOrder(ctx context.Context, id string) error {
	const op = "storage.DeleteWorkOrder"
	if err := checkContext(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM work_orders WHERE id = $1`, id)
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
