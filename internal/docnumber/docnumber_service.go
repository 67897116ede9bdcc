package docnumber

import (
	"context"
	"database/sql"
	"time"

	docnumbererrors "go-payroll/internal/docnumber/errors"
	"go-payroll/internal/shared/apperror"

	"go.uber.org/zap"
)

//go:generate mockgen -source=docnumber_service.go -destination=mock/docnumber_service_mock.go -package=mock
type Service interface {
	Issue(ctx context.Context, companyID string, req IssueNumberRequest) (IssueNumberResponse, error)
}

type service struct {
	db        *sql.DB
	generator *Generator
	logger    *zap.Logger
}

func NewService(db *sql.DB, generator *Generator, logger ...*zap.Logger) Service {
	l := zap.L().Named("docnumber.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("docnumber.service")
	}
	return &service{db: db, generator: generator, logger: l}
}

func (s *service) Issue(ctx context.Context, companyID string, req IssueNumberRequest) (IssueNumberResponse, error) {
	scheme, ok := Lookup(req.Scheme)
	if !ok {
		return IssueNumberResponse{}, docnumbererrors.ErrUnknownScheme
	}

	at := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return IssueNumberResponse{}, apperror.ErrInvalidDateFormat
		}
		at = parsed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IssueNumberResponse{}, err
	}
	defer tx.Rollback()

	number, err := s.generator.WithTx(tx).Next(ctx, companyID, scheme, at)
	if err != nil {
		s.logger.Error("issue document number failed",
			zap.String("company_id", companyID),
			zap.String("scheme", scheme.Prefix),
			zap.Error(err),
		)
		return IssueNumberResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return IssueNumberResponse{}, err
	}

	s.logger.Info("document number issued",
		zap.String("company_id", companyID),
		zap.String("number", number),
	)
	return IssueNumberResponse{Number: number, Scheme: scheme.Prefix}, nil
}
