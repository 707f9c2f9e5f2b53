// Package workorder реализует жизненный цикл заказ-нарядов: выдачу номеров,
// создание, разреженное обновление, чек-лист и ленивую миграцию статуса Backlog.
package workorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/equiptrack/internal/lib/sl"
	"github.com/magabrotheeeer/equiptrack/internal/metrics"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// Repository хранилище заказ-нарядов.
type Repository interface {
	NextWorkOrderSeq(ctx context.Context, year int, prefix string) (int, error)
	CreateWorkOrder(ctx context.Context, wo *models.WorkOrder) error
	GetWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error)
	GetWorkOrderByNumber(ctx context.Context, woID string) (*models.WorkOrder, error)
	ListWorkOrders(ctx context.Context) ([]*models.WorkOrder, error)
	PatchWorkOrder(ctx context.Context, id string, changes models.WorkOrderChanges) (*models.WorkOrder, error)
	MigrateLegacyStatus(ctx context.Context, id string) (bool, error)
	DeleteWorkOrder(ctx context.Context, id string) error
}

// Directory поиск отображаемых имён связанных записей.
type Directory interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetDepartment(ctx context.Context, id string) (*models.Department, error)
	GetMachine(ctx context.Context, id string) (*models.Machine, error)
}

// Service операции над заказ-нарядами.
type Service struct {
	repo    Repository
	dir     Directory
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New создаёт Service. m может быть nil.
func New(repo Repository, dir Directory, log *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		dir:     dir,
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

// Create создаёт заказ-наряд от имени requester. Статус всегда Scheduled,
// имена отдела, оборудования и исполнителя снимаются один раз.
func (s *Service) Create(ctx context.Context, req models.WorkOrderCreate, requester *models.User) (*models.WorkOrder, error) {
	const op = "workorder.Create"

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%s: %w: title is required", op, models.ErrValidation)
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%s: %w: unknown type %q", op, models.ErrValidation, req.Type)
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%s: %w: unknown priority %q", op, models.ErrValidation, priority)
	}
	if req.EstimatedDuration != nil && *req.EstimatedDuration < 0 {
		return nil, fmt.Errorf("%s: %w: estimated_duration must not be negative", op, models.ErrValidation)
	}

	site := models.DefaultSite
	if req.Site != nil && strings.TrimSpace(*req.Site) != "" {
		site = *req.Site
	}

	departmentName, err := s.departmentName(ctx, req.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	machineName, err := s.machineName(ctx, req.MachineID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	assigneeName, err := s.userName(ctx, req.Assignee)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	checklist := make([]models.ChecklistItem, 0, len(req.ChecklistItems))
	for _, text := range req.ChecklistItems {
		checklist = append(checklist, models.ChecklistItem{
			ID:   uuid.NewString(),
			Text: text,
		})
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	now := s.now().UTC()
	seq, err := s.repo.NextWorkOrderSeq(ctx, now.Year(), Prefix(now.Year()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	wo := &models.WorkOrder{
		ID:                uuid.NewString(),
		WOID:              FormatID(now.Year(), seq),
		Title:             title,
		Type:              req.Type,
		Priority:          priority,
		Status:            models.StatusScheduled,
		Assignee:          req.Assignee,
		AssigneeName:      assigneeName,
		RequestedBy:       requester.ID,
		RequestedByName:   requester.Username,
		Site:              site,
		DepartmentID:      req.DepartmentID,
		DepartmentName:    departmentName,
		MachineID:         req.MachineID,
		MachineName:       machineName,
		Location:          req.Location,
		DueDate:           req.DueDate,
		ScheduledStart:    req.ScheduledStart,
		ScheduledEnd:      req.ScheduledEnd,
		EstimatedDuration: req.EstimatedDuration,
		Description:       req.Description,
		Checklist:         checklist,
		Tags:              tags,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.CreateWorkOrder(ctx, wo); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.RecordWorkOrderCreated()
	return wo, nil
}

// List возвращает все заказ-наряды, новые первыми. Записи со статусом Backlog
// переписываются в хранилище на Scheduled и возвращаются уже исправленными.
func (s *Service) List(ctx context.Context) ([]*models.WorkOrder, error) {
	const op = "workorder.List"
	list, err := s.repo.ListWorkOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, wo := range list {
		s.migrateLegacy(ctx, wo)
	}
	return list, nil
}

// Get возвращает заказ-наряд по внутреннему идентификатору или по номеру вида WO-2025-0001.
func (s *Service) Get(ctx context.Context, id string) (*models.WorkOrder, error) {
	const op = "workorder.Get"
	var (
		wo  *models.WorkOrder
		err error
	)
	if _, _, perr := ParseID(id); perr == nil {
		wo, err = s.repo.GetWorkOrderByNumber(ctx, id)
	} else {
		wo, err = s.repo.GetWorkOrder(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.migrateLegacy(ctx, wo)
	return wo, nil
}

// Update применяет разреженный патч от имени actor.
//
// Поле nil не меняется: в хранилище уходят только заданные поля, без чтения
// и перезаписи всей строки. Переход в Completed ставит completed_at один раз,
// уход из Completed его не сбрасывает. Чек-лист заменяется целиком.
func (s *Service) Update(ctx context.Context, id string, patch models.WorkOrderUpdate, actor *models.User) (*models.WorkOrder, error) {
	const op = "workorder.Update"

	if err := validatePatch(patch); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	changes := models.WorkOrderChanges{
		Priority:          patch.Priority,
		Status:            patch.Status,
		DueDate:           patch.DueDate,
		ScheduledStart:    patch.ScheduledStart,
		ScheduledEnd:      patch.ScheduledEnd,
		EstimatedDuration: patch.EstimatedDuration,
		Description:       patch.Description,
		UpdatedAt:         now,
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		changes.Title = &title
	}
	if patch.Assignee != nil {
		name, err := s.userName(ctx, patch.Assignee)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		changes.Assignee = patch.Assignee
		changes.AssigneeName = name
	}
	if patch.Tags != nil {
		tags := append([]string{}, *patch.Tags...)
		changes.Tags = &tags
	}
	if patch.Checklist != nil {
		items := normalizeChecklist(*patch.Checklist, actor, now)
		changes.Checklist = &items
	}

	wo, err := s.repo.PatchWorkOrder(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return wo, nil
}

// Delete удаляет заказ-наряд без возможности восстановления.
func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "workorder.Delete"
	if err := s.repo.DeleteWorkOrder(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func validatePatch(patch models.WorkOrderUpdate) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", models.ErrValidation)
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", models.ErrValidation, *patch.Priority)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", models.ErrValidation, *patch.Status)
	}
	if patch.EstimatedDuration != nil && *patch.EstimatedDuration < 0 {
		return fmt.Errorf("%w: estimated_duration must not be negative", models.ErrValidation)
	}
	return nil
}

// normalizeChecklist готовит присланный чек-лист к сохранению: пункту без id
// выдаётся новый, у невыполненного пункта сбрасываются completed_by и completed_at,
// выполненному без исполнителя или времени они проставляются от actor и now.
func normalizeChecklist(items []models.ChecklistItem, actor *models.User, now time.Time) []models.ChecklistItem {
	out := make([]models.ChecklistItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.Completed {
			if item.CompletedBy == nil && actor != nil {
				by := actor.ID
				item.CompletedBy = &by
			}
			if item.CompletedAt == nil {
				at := now
				item.CompletedAt = &at
			}
		} else {
			item.CompletedBy = nil
			item.CompletedAt = nil
		}
		out = append(out, item)
	}
	return out
}

func (s *Service) migrateLegacy(ctx context.Context, wo *models.WorkOrder) {
	if wo.Status != models.StatusLegacyBacklog {
		return
	}
	if _, err := s.repo.MigrateLegacyStatus(ctx, wo.ID); err != nil {
		s.log.Warn("failed to migrate legacy status", slog.String("id", wo.ID), sl.Err(err))
	}
	wo.Status = models.StatusScheduled
}

func (s *Service) departmentName(ctx context.Context, id *string) (*string, error) {
	if id == nil {
		return nil, nil
	}
	d, err := s.dir.GetDepartment(ctx, *id)
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	return &d.Name, nil
}

func (s *Service) machineName(ctx context.Context, id *string) (*string, error) {
	if id == nil {
		return nil, nil
	}
	m, err := s.dir.GetMachine(ctx, *id)
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	return &m.Name, nil
}

func (s *Service) userName(ctx context.Context, id *string) (*string, error) {
	if id == nil {
		return nil, nil
	}
	u, err := s.dir.GetUser(ctx, *id)
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	return &u.Username, nil
}

// ignoreNotFound висячая ссылка не ошибка: имя просто остаётся пустым.
func ignoreNotFound(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	return err
}
