package payrollperiod

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeMonthly  = "monthly"
	TypeBiweekly = "biweekly"
	TypeWeekly   = "weekly"
	TypeCustom   = "custom"
)

type PayrollPeriod struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name        string     `gorm:"type:varchar(100);not null"`
	PeriodType  string     `gorm:"type:varchar(20);not null;default:'monthly'"`
	StartDate   time.Time  `gorm:"type:date;not null"`
	EndDate     time.Time  `gorm:"type:date;not null"`
	PaymentDate *time.Time `gorm:"type:date"`
	IsLocked    bool       `gorm:"not null;default:false"`
	IsProcessed bool       `gorm:"not null;default:false"`
	ProcessedAt *time.Time
	ProcessedBy *uuid.UUID `gorm:"type:uuid"`
	Notes       *string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (PayrollPeriod) TableName() string {
	return "payroll_periods"
}

// AcceptsPayroll reports whether new payrolls may still be generated.
func (p PayrollPeriod) AcceptsPayroll() bool {
	return !p.IsLocked && !p.IsProcessed
}
