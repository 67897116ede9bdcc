package payrollrun

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const (
	TypeDepartment = "department"
	TypeCompany    = "company"
	TypeBranch     = "branch"
	TypeCustom     = "custom"
	TypeAll        = "all"
)

// EmployeeIDList is stored as a JSON array.
type EmployeeIDList []string

func (l EmployeeIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *EmployeeIDList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("employee id list: unsupported type %T", src)
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

type PayrollRun struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	RunNumber       string         `gorm:"type:varchar(50);not null"`
	RunType         string         `gorm:"type:varchar(20);not null"`
	PayrollPeriodID uuid.UUID      `gorm:"type:uuid;not null;index"`
	DepartmentID    *uuid.UUID     `gorm:"type:uuid"`
	BranchID        *uuid.UUID     `gorm:"type:uuid"`
	EmployeeIDs     EmployeeIDList `gorm:"column:employee_ids;type:jsonb;not null;default:'[]'"`

	Status             string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	TotalEmployees     int             `gorm:"not null;default:0"`
	ProcessedEmployees int             `gorm:"not null;default:0"`
	FailedEmployees    int             `gorm:"not null;default:0"`
	TotalAmount        decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0"`

	StartedBy   *uuid.UUID `gorm:"type:uuid"`
	StartedAt   *time.Time
	CompletedBy *uuid.UUID `gorm:"type:uuid"`
	CompletedAt *time.Time
	Notes       *string `gorm:"type:text"`
	ErrorLog    string  `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PayrollRun) TableName() string {
	return "payroll_runs"
}

// AppendError adds one line to the run's error log.
func (r *PayrollRun) AppendError(line string) {
	if r.ErrorLog == "" {
		r.ErrorLog = line
		return
	}
	r.ErrorLog = strings.Join([]string{r.ErrorLog, line}, "\n")
}

// RecordSuccess counts one generated payroll and its net salary.
func (r *PayrollRun) RecordSuccess(net decimal.Decimal) {
	r.ProcessedEmployees++
	r.TotalAmount = r.TotalAmount.Add(net)
}

// RecordFailure counts one skipped employee with its reason.
func (r *PayrollRun) RecordFailure(reason string) {
	r.FailedEmployees++
	r.AppendError(reason)
}

func (r *PayrollRun) IsFinished() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}
