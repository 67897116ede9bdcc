package docnumber

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go-payroll/internal/shared/counter"
)

// Scheme describes one family of business document numbers:
// <PREFIX>-<YEAR>[-<MONTH>]-<5 digit sequence>.
type Scheme struct {
	Prefix  string
	Monthly bool
}

var (
	Payroll          = Scheme{Prefix: "PR", Monthly: true}
	PayrollRun       = Scheme{Prefix: "RUN"}
	Loan             = Scheme{Prefix: "LN"}
	SalaryAdvance    = Scheme{Prefix: "ADV"}
	PurchaseOrder    = Scheme{Prefix: "PO"}
	GatePass         = Scheme{Prefix: "GP"}
	LeaveApplication = Scheme{Prefix: "LEAVE"}
	QualityCheck     = Scheme{Prefix: "QC"}
	ProductionOrder  = Scheme{Prefix: "PROD"}
)

var schemes = map[string]Scheme{}

func init() {
	for _, s := range []Scheme{
		Payroll, PayrollRun, Loan, SalaryAdvance, PurchaseOrder,
		GatePass, LeaveApplication, QualityCheck, ProductionOrder,
	} {
		schemes[s.Prefix] = s
	}
}

// Lookup finds a scheme by prefix, case-insensitively.
func Lookup(prefix string) (Scheme, bool) {
	s, ok := schemes[strings.ToUpper(strings.TrimSpace(prefix))]
	return s, ok
}

// Key is the counter key the sequence is kept under, e.g. "PR-2026-10".
func (s Scheme) Key(at time.Time) string {
	if s.Monthly {
		return fmt.Sprintf("%s-%04d-%02d", s.Prefix, at.Year(), int(at.Month()))
	}
	return fmt.Sprintf("%s-%04d", s.Prefix, at.Year())
}

// Format renders a full number. Sequences beyond 99999 widen rather than wrap.
func (s Scheme) Format(at time.Time, seq int64) string {
	return fmt.Sprintf("%s-%05d", s.Key(at), seq)
}

type Generator struct {
	counter counter.Repository
}

func NewGenerator(counterRepo counter.Repository) *Generator {
	return &Generator{counter: counterRepo}
}

// WithTx binds the counter increment to tx so the number is released if the
// document insert rolls back.
func (g *Generator) WithTx(tx *sql.Tx) *Generator {
	return &Generator{counter: g.counter.WithTx(tx)}
}

func (g *Generator) Next(ctx context.Context, companyID string, scheme Scheme, at time.Time) (string, error) {
	seq, err := g.counter.GetNextValue(ctx, companyID, scheme.Key(at))
	if err != nil {
		return "", fmt.Errorf("next %s number: %w", scheme.Prefix, err)
	}
	return scheme.Format(at, seq), nil
}
