package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/fekuna/omnipos-inventory-web/internal/report"
	"go.uber.org/zap"
)

const topSellers = 4

type reportUseCase struct {
	repo   report.Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewReportUseCase(repo report.Repository, log logger.ZapLogger) report.UseCase {
	return &reportUseCase{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

func (uc *reportUseCase) Dashboard(ctx context.Context) (*report.Dashboard, error) {
	snapshot, err := uc.repo.Snapshot(ctx, topSellers)
	if err != nil {
		uc.logger.Error("failed to load dashboard snapshot", zap.Error(err))
		return nil, err
	}
	return report.BuildDashboard(snapshot, uc.now()), nil
}

func (uc *reportUseCase) Report(ctx context.Context) (*report.Report, error) {
	products, err := uc.repo.Products(ctx)
	if err != nil {
		uc.logger.Error("failed to load products for report", zap.Error(err))
		return nil, err
	}
	return report.BuildReport(products, uc.now()), nil
}
