package events

import "time"

const (
	PayrollRunRequestedTopic     = "erp.payroll.run.requested.v1"
	PayrollPayslipRequestedTopic = "erp.payroll.payslip.requested.v1"
	PayrollApprovedTopic         = "erp.payroll.approved.v1"
	PayrollPaidTopic             = "erp.payroll.paid.v1"
)

const (
	EventPayrollRunRequested     = "payroll_run_requested"
	EventPayrollPayslipRequested = "payroll_payslip_requested"
	EventPayrollApproved         = "payroll_approved"
	EventPayrollPaid             = "payroll_paid"
)

type PayrollRunRequestedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	RunID       string    `json:"run_id"`
	CompanyID   string    `json:"company_id"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type PayrollPayslipRequestedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	PayrollID   string    `json:"payroll_id"`
	CompanyID   string    `json:"company_id"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// PayrollStatusEvent is emitted on approval and payment for downstream
// accounting.
type PayrollStatusEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	PayrollID     string    `json:"payroll_id"`
	PayrollNumber string    `json:"payroll_number"`
	CompanyID     string    `json:"company_id"`
	EmployeeID    string    `json:"employee_id"`
	PeriodID      string    `json:"payroll_period_id"`
	NetSalary     string    `json:"net_salary"`
	Status        string    `json:"status"`
	ActorID       string    `json:"actor_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
