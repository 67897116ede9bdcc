package payrollcomponent

import "strings"

// Slot is the payroll column a component's amount lands in.
type Slot string

const (
	SlotHRA             Slot = "hra"
	SlotConveyance      Slot = "conveyance"
	SlotMedical         Slot = "medical"
	SlotSpecial         Slot = "special"
	SlotOtherEarning    Slot = "other_earning"
	SlotProvidentFund   Slot = "provident_fund"
	SlotProfessionalTax Slot = "professional_tax"
	SlotIncomeTax       Slot = "income_tax"
	SlotOtherDeduction  Slot = "other_deduction"
)

var earningSlots = map[string]Slot{
	"HRA": SlotHRA,
	"CA":  SlotConveyance,
	"MA":  SlotMedical,
	"SA":  SlotSpecial,
}

var deductionSlots = map[string]Slot{
	"PF": SlotProvidentFund,
	"PT": SlotProfessionalTax,
	"IT": SlotIncomeTax,
}

// ResolveSlot maps a component code to its slot. Unknown codes fall into the
// "other" slot of their side.
func ResolveSlot(componentType, code string) Slot {
	code = strings.ToUpper(strings.TrimSpace(code))

	if componentType == TypeDeduction {
		if slot, ok := deductionSlots[code]; ok {
			return slot
		}
		return SlotOtherDeduction
	}

	if slot, ok := earningSlots[code]; ok {
		return slot
	}
	return SlotOtherEarning
}

func (s Slot) IsDeduction() bool {
	switch s {
	case SlotProvidentFund, SlotProfessionalTax, SlotIncomeTax, SlotOtherDeduction:
		return true
	}
	return false
}
