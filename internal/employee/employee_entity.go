package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusOnLeave    = "on_leave"
	StatusTerminated = "terminated"
)

// Employee is the payroll view of the HR directory. The HR module owns the
// table; payroll only reads it.
type Employee struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID        uuid.UUID       `gorm:"type:uuid;index"`
	DepartmentID     *uuid.UUID      `gorm:"type:uuid;index"`
	BranchID         *uuid.UUID      `gorm:"type:uuid;index"`
	EmployeeNumber   string          `gorm:"type:varchar(50)"`
	FullName         string          `gorm:"type:varchar(150)"`
	EmploymentStatus string          `gorm:"type:varchar(20)"`
	BasicSalary      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == StatusActive
}

// DisplayName is used in batch run logs.
func (e Employee) DisplayName() string {
	if e.EmployeeNumber == "" {
		return e.FullName
	}
	return e.FullName + " (" + e.EmployeeNumber + ")"
}
