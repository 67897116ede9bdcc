package payroll

import (
	"fmt"

	"go-payroll/internal/attendance"
	"go-payroll/internal/payrollcomponent"
	"go-payroll/internal/salarystructure"

	"github.com/shopspring/decimal"
)

var (
	half    = decimal.NewFromFloat(0.5)
	hundred = decimal.NewFromInt(100)
)

// PayableDays counts present and holiday days fully and leave days at half.
func PayableDays(sum attendance.Summary) decimal.Decimal {
	return decimal.NewFromInt(int64(sum.PresentDays + sum.HolidayDays)).
		Add(half.Mul(decimal.NewFromInt(int64(sum.LeaveDays))))
}

// ProratedBasic pays basic for the payable share of the period's days.
func ProratedBasic(basic decimal.Decimal, sum attendance.Summary) decimal.Decimal {
	if sum.TotalWorkingDays <= 0 {
		return decimal.Zero
	}
	daily := basic.Div(decimal.NewFromInt(int64(sum.TotalWorkingDays)))
	return daily.Mul(PayableDays(sum)).Round(2)
}

// ComponentAmount evaluates one structure value against the prorated basic.
func ComponentAmount(v salarystructure.ComponentValue, proratedBasic decimal.Decimal) (decimal.Decimal, string) {
	switch v.Component.CalculationType {
	case payrollcomponent.CalcPercentage:
		amount := proratedBasic.Mul(v.Percentage).Div(hundred).Round(2)
		return amount, fmt.Sprintf("%s%% of prorated basic", v.Percentage.String())
	case payrollcomponent.CalcFormula:
		return v.Amount.Round(2), "formula component, stored amount"
	case payrollcomponent.CalcAttendance:
		return v.Amount.Round(2), "attendance component, stored amount"
	default:
		return v.Amount.Round(2), "fixed calculation"
	}
}

// Compute fills p's attendance counts and component driven amounts from the
// structure and the attendance summary, and returns one item per component
// value of the structure, whether or not the component is still active in the
// master list. Loan and advance deductions are not touched.
func Compute(p *Payroll, st *salarystructure.SalaryStructure, sum attendance.Summary) []PayrollItem {
	p.resetAmounts()

	p.TotalWorkingDays = sum.TotalWorkingDays
	p.PresentDays = sum.PresentDays
	p.AbsentDays = sum.AbsentDays
	p.LeaveDays = sum.LeaveDays
	p.HolidayDays = sum.HolidayDays
	p.OvertimeHours = sum.OvertimeHours

	p.BasicSalary = ProratedBasic(st.BasicSalary, sum)
	p.OvertimeAmount = sum.OvertimeAmount(st.BasicSalary)

	items := make([]PayrollItem, 0, len(st.Components))
	for _, v := range st.Components {
		if v.Component == nil {
			continue
		}

		amount, note := ComponentAmount(v, p.BasicSalary)
		p.addToSlot(v.Component.Slot, amount)

		componentID := v.ComponentID
		itemType := ItemEarning
		if v.Component.Slot.IsDeduction() {
			itemType = ItemDeduction
		}
		items = append(items, PayrollItem{
			PayrollID:       p.ID,
			CompanyID:       p.CompanyID,
			Source:          SourceComponent,
			SourceID:        &componentID,
			Code:            v.Component.Code,
			Name:            v.Component.Name,
			ItemType:        itemType,
			Amount:          amount,
			CalculationNote: note,
		})
	}

	p.CalculateTotals()
	return items
}

func (p *Payroll) addToSlot(slot payrollcomponent.Slot, amount decimal.Decimal) {
	switch slot {
	case payrollcomponent.SlotHRA:
		p.HRA = p.HRA.Add(amount)
	case payrollcomponent.SlotConveyance:
		p.ConveyanceAllowance = p.ConveyanceAllowance.Add(amount)
	case payrollcomponent.SlotMedical:
		p.MedicalAllowance = p.MedicalAllowance.Add(amount)
	case payrollcomponent.SlotSpecial:
		p.SpecialAllowance = p.SpecialAllowance.Add(amount)
	case payrollcomponent.SlotProvidentFund:
		p.ProvidentFund = p.ProvidentFund.Add(amount)
	case payrollcomponent.SlotProfessionalTax:
		p.ProfessionalTax = p.ProfessionalTax.Add(amount)
	case payrollcomponent.SlotIncomeTax:
		p.IncomeTax = p.IncomeTax.Add(amount)
	case payrollcomponent.SlotOtherDeduction:
		p.OtherDeductions = p.OtherDeductions.Add(amount)
	default:
		p.OtherEarnings = p.OtherEarnings.Add(amount)
	}
}
