package payrollcomponent

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TypeEarning   = "earning"
	TypeDeduction = "deduction"

	CalcFixed      = "fixed"
	CalcPercentage = "percentage"
	CalcFormula    = "formula"
	CalcAttendance = "attendance"
)

type PayrollComponent struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code            string          `gorm:"type:varchar(20);not null"`
	Name            string          `gorm:"type:varchar(100);not null"`
	ComponentType   string          `gorm:"type:varchar(20);not null"`
	CalculationType string          `gorm:"type:varchar(20);not null;default:'fixed'"`
	DefaultValue    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	PercentageOf    *string         `gorm:"type:varchar(50)"`
	Formula         *string         `gorm:"type:text"`
	Slot            Slot            `gorm:"type:varchar(30);not null"`
	IsTaxable       bool            `gorm:"not null;default:true"`
	IsActive        bool            `gorm:"not null;default:true"`
	Priority        int             `gorm:"not null;default:0"`
	Description     *string         `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (PayrollComponent) TableName() string {
	return "payroll_components"
}

func (c PayrollComponent) IsEarning() bool {
	return c.ComponentType == TypeEarning
}
