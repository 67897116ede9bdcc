package salarystructure

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/payrollcomponent"
	salarystructureerrors "go-payroll/internal/salarystructure/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

//go:generate mockgen -source=salarystructure_service.go -destination=mock/salarystructure_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateStructureRequest) (StructureResponse, error)
	GetAll(ctx context.Context, companyID string, q ListStructuresQuery) ([]StructureResponse, error)
	GetByID(ctx context.Context, companyID, id string) (StructureResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateStructureRequest) (StructureResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	GetEmployeeStructure(ctx context.Context, companyID, employeeID string) (EmployeeStructureResponse, error)
}

type service struct {
	db            *sql.DB
	repo          Repository
	employeeRepo  employee.Repository
	componentRepo payrollcomponent.Repository
	logger        *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	componentRepo payrollcomponent.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("salarystructure.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salarystructure.service")
	}
	return &service{
		db:            db,
		repo:          repo,
		employeeRepo:  employeeRepo,
		componentRepo: componentRepo,
		logger:        l,
	}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateStructureRequest) (StructureResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return StructureResponse{}, apperror.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return StructureResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := s.employeeRepo.WithTx(tx).FindByIDAndCompany(ctx, companyID, req.EmployeeID); err != nil {
		return StructureResponse{}, err
	}

	structure := &SalaryStructure{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: uuid.MustParse(req.EmployeeID),
		IsActive:   true,
	}
	if actorUUID, err := uuid.Parse(actorID); err == nil {
		structure.CreatedBy = &actorUUID
	}

	values, err := s.buildStructure(ctx, tx, companyID, structure, req)
	if err != nil {
		return StructureResponse{}, err
	}

	if structure.IsActive {
		if err := qtx.DeactivateForEmployee(ctx, companyID, req.EmployeeID, structure.ID.String(), structure.EffectiveFrom.AddDate(0, 0, -1)); err != nil {
			return StructureResponse{}, mapRepositoryError(err)
		}
	}

	structure.Components = values
	if err := qtx.Create(ctx, structure); err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}

	created, err := qtx.FindByIDAndCompany(ctx, companyID, structure.ID.String())
	if err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return StructureResponse{}, err
	}

	s.logger.Info("salary structure created",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("structure_id", structure.ID.String()),
		zap.Bool("active", structure.IsActive),
	)
	return mapToResponse(*created), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, q ListStructuresQuery) ([]StructureResponse, error) {
	structures, err := s.repo.FindAllByCompany(ctx, companyID, ListFilter{
		EmployeeID: q.EmployeeID,
		IsActive:   q.IsActive,
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]StructureResponse, len(structures))
	for i, st := range structures {
		resp[i] = mapToResponse(st)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (StructureResponse, error) {
	structure, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*structure), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateStructureRequest) (StructureResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return StructureResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	structure, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}
	if structure.EmployeeID.String() != req.EmployeeID {
		return StructureResponse{}, apperror.InvalidField("employee_id")
	}

	values, err := s.buildStructure(ctx, tx, companyID, structure, req)
	if err != nil {
		return StructureResponse{}, err
	}

	if structure.IsActive {
		if err := qtx.DeactivateForEmployee(ctx, companyID, req.EmployeeID, id, structure.EffectiveFrom.AddDate(0, 0, -1)); err != nil {
			return StructureResponse{}, mapRepositoryError(err)
		}
	}

	structure.Components = nil
	if err := qtx.Update(ctx, structure); err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}
	if err := qtx.ReplaceComponents(ctx, id, values); err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}

	updated, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return StructureResponse{}, err
	}
	return mapToResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}

	return tx.Commit()
}

func (s *service) GetEmployeeStructure(ctx context.Context, companyID, employeeID string) (EmployeeStructureResponse, error) {
	structure, err := s.repo.FindActiveByEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(mapRepositoryError(err), salarystructureerrors.ErrStructureNotFound) {
			return EmployeeStructureResponse{}, salarystructureerrors.ErrNoActiveStructure
		}
		return EmployeeStructureResponse{}, err
	}

	return EmployeeStructureResponse{
		StructureID: structure.ID.String(),
		BasicSalary: structure.BasicSalary,
		Components:  mapComponentValues(structure.Components),
	}, nil
}

// buildStructure copies the request onto structure, validates the component
// list against the company's components and computes total CTC.
func (s *service) buildStructure(
	ctx context.Context,
	tx *sql.Tx,
	companyID string,
	structure *SalaryStructure,
	req CreateStructureRequest,
) ([]ComponentValue, error) {
	if !req.BasicSalary.IsPositive() {
		return nil, salarystructureerrors.ErrBasicSalaryRequired
	}

	effectiveFrom, err := time.Parse(time.DateOnly, req.EffectiveFrom)
	if err != nil {
		return nil, apperror.ErrInvalidDateFormat
	}
	var effectiveTo *time.Time
	if req.EffectiveTo != nil && *req.EffectiveTo != "" {
		t, err := time.Parse(time.DateOnly, *req.EffectiveTo)
		if err != nil {
			return nil, apperror.ErrInvalidDateFormat
		}
		if t.Before(effectiveFrom) {
			return nil, salarystructureerrors.ErrInvalidEffectiveRange
		}
		effectiveTo = &t
	}

	ids := make([]string, 0, len(req.Components))
	seen := make(map[string]struct{}, len(req.Components))
	for _, cv := range req.Components {
		if _, dup := seen[cv.ComponentID]; dup {
			return nil, salarystructureerrors.ErrDuplicateComponent
		}
		seen[cv.ComponentID] = struct{}{}
		ids = append(ids, cv.ComponentID)
	}

	components, err := s.componentRepo.WithTx(tx).FindByIDs(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}
	if len(components) != len(ids) {
		return nil, salarystructureerrors.ErrUnknownComponent
	}
	byID := make(map[string]payrollcomponent.PayrollComponent, len(components))
	for _, c := range components {
		byID[c.ID.String()] = c
	}

	values := make([]ComponentValue, 0, len(req.Components))
	ctc := req.BasicSalary
	for _, cv := range req.Components {
		component := byID[cv.ComponentID]

		value := ComponentValue{
			ID:          uuid.New(),
			StructureID: structure.ID,
			ComponentID: component.ID,
			Amount:      component.DefaultValue,
			Formula:     component.Formula,
		}
		if component.CalculationType == payrollcomponent.CalcPercentage {
			value.Amount = decimal.Zero
			value.Percentage = component.DefaultValue
		}
		if cv.Amount != nil {
			value.Amount = *cv.Amount
		}
		if cv.Percentage != nil {
			value.Percentage = *cv.Percentage
		}
		if cv.Formula != nil {
			value.Formula = cv.Formula
		}
		if value.Amount.IsNegative() || value.Percentage.IsNegative() {
			return nil, salarystructureerrors.ErrNegativeAmount
		}

		if component.IsEarning() {
			ctc = ctc.Add(nominalAmount(component.CalculationType, value, req.BasicSalary))
		}
		values = append(values, value)
	}

	structure.EffectiveFrom = effectiveFrom
	structure.EffectiveTo = effectiveTo
	structure.BasicSalary = req.BasicSalary
	structure.TotalCTC = ctc.Round(2)
	structure.Notes = req.Notes
	if req.IsActive != nil {
		structure.IsActive = *req.IsActive
	}

	return values, nil
}

// nominalAmount is the full-month value of a component, before proration.
func nominalAmount(calculationType string, v ComponentValue, basic decimal.Decimal) decimal.Decimal {
	if calculationType == payrollcomponent.CalcPercentage {
		return basic.Mul(v.Percentage).Div(hundred)
	}
	return v.Amount
}

func mapComponentValues(values []ComponentValue) []ComponentValueResponse {
	resp := make([]ComponentValueResponse, 0, len(values))
	for _, v := range values {
		item := ComponentValueResponse{
			ComponentID: v.ComponentID.String(),
			Amount:      v.Amount,
			Percentage:  v.Percentage,
			Formula:     v.Formula,
		}
		if v.Component != nil {
			item.Code = v.Component.Code
			item.Name = v.Component.Name
			item.ComponentType = v.Component.ComponentType
			item.CalculationType = v.Component.CalculationType
		}
		resp = append(resp, item)
	}
	return resp
}

func mapToResponse(st SalaryStructure) StructureResponse {
	resp := StructureResponse{
		ID:            st.ID.String(),
		EmployeeID:    st.EmployeeID.String(),
		EffectiveFrom: st.EffectiveFrom.Format(time.DateOnly),
		BasicSalary:   st.BasicSalary,
		TotalCTC:      st.TotalCTC,
		IsActive:      st.IsActive,
		Notes:         st.Notes,
		Components:    mapComponentValues(st.Components),
	}
	if st.EffectiveTo != nil {
		v := st.EffectiveTo.Format(time.DateOnly)
		resp.EffectiveTo = &v
	}
	return resp
}
