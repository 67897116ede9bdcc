package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusHalfDay = "half_day"
	StatusLeave   = "leave"
	StatusHoliday = "holiday"
)

// Attendance is one day of the attendance ledger. Rows are written by the HR
// module; payroll reads them.
type Attendance struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID       `gorm:"column:company_id;type:uuid;not null;index"`
	EmployeeID     uuid.UUID       `gorm:"column:employee_id;type:uuid;not null;index"`
	AttendanceDate time.Time       `gorm:"column:attendance_date;type:date;not null;index"`
	Status         string          `gorm:"column:status;type:varchar(20);not null"`
	OvertimeHours  decimal.Decimal `gorm:"column:overtime_hours;type:numeric(6,2);not null;default:0"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (Attendance) TableName() string {
	return "attendances"
}
