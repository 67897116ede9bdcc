package salarystructure

import (
	"time"

	"go-payroll/internal/payrollcomponent"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalaryStructure struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	EffectiveFrom time.Time       `gorm:"type:date;not null"`
	EffectiveTo   *time.Time      `gorm:"type:date"`
	BasicSalary   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalCTC      decimal.Decimal `gorm:"column:total_ctc;type:numeric(14,2);not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true"`
	Notes         *string         `gorm:"type:text"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	Components []ComponentValue `gorm:"foreignKey:StructureID"`
}

func (SalaryStructure) TableName() string {
	return "salary_structures"
}

// ComponentValue binds one payroll component to a structure. Amount is used
// by fixed, formula and attendance components; Percentage by percentage ones.
type ComponentValue struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StructureID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ComponentID uuid.UUID       `gorm:"type:uuid;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Percentage  decimal.Decimal `gorm:"type:numeric(7,4);not null;default:0"`
	Formula     *string         `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Component *payrollcomponent.PayrollComponent `gorm:"foreignKey:ComponentID;references:ID"`
}

func (ComponentValue) TableName() string {
	return "salary_component_values"
}
