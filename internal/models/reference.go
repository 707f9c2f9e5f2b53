package models

import "time"

// Department отдел предприятия.
type Department struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	CreatedBy string    `json:"created_by" db:"created_by"`
}

// Machine единица оборудования. DepartmentName снимается в момент создания
// и не обновляется при переименовании отдела.
type Machine struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	DepartmentID   string    `json:"department_id" db:"department_id"`
	DepartmentName string    `json:"department_name" db:"department_name"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	CreatedBy      string    `json:"created_by" db:"created_by"`
}

// DepartmentRequest тело запроса на создание отдела.
type DepartmentRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// MachineRequest тело запроса на создание оборудования.
type MachineRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	DepartmentID string `json:"department_id" validate:"required"`
}
