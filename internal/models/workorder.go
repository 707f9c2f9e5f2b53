package models

import "time"

// WorkOrderType тип заказ-наряда.
type WorkOrderType string

const (
	// TypePM плановое техническое обслуживание.
	TypePM WorkOrderType = "PM"
	// TypeRepair ремонт.
	TypeRepair WorkOrderType = "Repair"
)

// Valid сообщает, допустим ли тип.
func (t WorkOrderType) Valid() bool {
	return t == TypePM || t == TypeRepair
}

// Priority приоритет заказ-наряда.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Valid сообщает, допустим ли приоритет.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// WorkOrderStatus статус заказ-наряда. Переходы между статусами не ограничены.
type WorkOrderStatus string

const (
	StatusScheduled  WorkOrderStatus = "Scheduled"
	StatusInProgress WorkOrderStatus = "In Progress"
	StatusCompleted  WorkOrderStatus = "Completed"
	StatusOnHold     WorkOrderStatus = "On Hold"

	// StatusLegacyBacklog устаревшее значение, при чтении заменяется на StatusScheduled.
	StatusLegacyBacklog WorkOrderStatus = "Backlog"
)

// Valid сообщает, допустим ли статус во входящем запросе. Устаревший Backlog недопустим.
func (s WorkOrderStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

// DefaultSite площадка по умолчанию.
const DefaultSite = "Main Site"

// ChecklistItem пункт чек-листа. Принадлежит заказ-наряду и не существует отдельно от него.
type ChecklistItem struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CompletedBy *string    `json:"completed_by"`
	CompletedAt *time.Time `json:"completed_at"`
}

// WorkOrder заказ-наряд на обслуживание или ремонт.
//
// Имена отдела, оборудования, исполнителя и заявителя хранятся как снимки
// на момент создания, исполнителя на момент последнего назначения.
type WorkOrder struct {
	ID                string          `json:"id"`
	WOID              string          `json:"wo_id"`
	Title             string          `json:"title"`
	Type              WorkOrderType   `json:"type"`
	Priority          Priority        `json:"priority"`
	Status            WorkOrderStatus `json:"status"`
	Assignee          *string         `json:"assignee"`
	AssigneeName      *string         `json:"assignee_name"`
	RequestedBy       string          `json:"requested_by"`
	RequestedByName   string          `json:"requested_by_name"`
	Site              string          `json:"site"`
	DepartmentID      *string         `json:"department_id"`
	DepartmentName    *string         `json:"department_name"`
	MachineID         *string         `json:"machine_id"`
	MachineName       *string         `json:"machine_name"`
	Location          *string         `json:"location"`
	DueDate           *time.Time      `json:"due_date"`
	ScheduledStart    *time.Time      `json:"scheduled_start"`
	ScheduledEnd      *time.Time      `json:"scheduled_end"`
	EstimatedDuration *int            `json:"estimated_duration"`
	Description       *string         `json:"description"`
	Checklist         []ChecklistItem `json:"checklist"`
	Tags              []string        `json:"tags"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	CompletedAt       *time.Time      `json:"completed_at"`
}

// WorkOrderCreate тело запроса на создание заказ-наряда.
type WorkOrderCreate struct {
	Title             string        `json:"title" validate:"required,max=300"`
	Type              WorkOrderType `json:"type" validate:"required"`
	Priority          Priority      `json:"priority"`
	Assignee          *string       `json:"assignee"`
	Site              *string       `json:"site"`
	DepartmentID      *string       `json:"department_id"`
	MachineID         *string       `json:"machine_id"`
	Location          *string       `json:"location"`
	DueDate           *time.Time    `json:"due_date"`
	ScheduledStart    *time.Time    `json:"scheduled_start"`
	ScheduledEnd      *time.Time    `json:"scheduled_end"`
	EstimatedDuration *int          `json:"estimated_duration" validate:"omitempty,gte=0"`
	Description       *string       `json:"description"`
	ChecklistItems    []string      `json:"checklist_items"`
	Tags              []string      `json:"tags"`
}

// WorkOrderUpdate разреженный патч: применяются только непустые (non-nil) поля.
// Сбросить необязательное поле обратно в null этим запросом нельзя.
type WorkOrderUpdate struct {
	Title             *string          `json:"title" validate:"omitempty,min=1,max=300"`
	Priority          *Priority        `json:"priority"`
	Status            *WorkOrderStatus `json:"status"`
	Assignee          *string          `json:"assignee"`
	DueDate           *time.Time       `json:"due_date"`
	ScheduledStart    *time.Time       `json:"scheduled_start"`
	ScheduledEnd      *time.Time       `json:"scheduled_end"`
	EstimatedDuration *int             `json:"estimated_duration" validate:"omitempty,gte=0"`
	Description       *string          `json:"description"`
	Tags              *[]string        `json:"tags"`
	Checklist         *[]ChecklistItem `json:"checklist"`
}

// WorkOrderChanges проверенные изменения заказ-наряда для записи в хранилище.
// Записываются только non-nil поля; AssigneeName пишется вместе с Assignee,
// даже если оно nil.
type WorkOrderChanges struct {
	Title             *string
	Priority          *Priority
	Status            *WorkOrderStatus
	Assignee          *string
	AssigneeName      *string
	DueDate           *time.Time
	ScheduledStart    *time.Time
	ScheduledEnd      *time.Time
	EstimatedDuration *int
	Description       *string
	Tags              *[]string
	Checklist         *[]ChecklistItem
	UpdatedAt         time.Time
}
