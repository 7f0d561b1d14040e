package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	snapshot *report.Snapshot
	products []model.Product
	err      error
	limit    int
}

func (r *stubRepo) Snapshot(_ context.Context, limit int) (*report.Snapshot, error) {
	r.limit = limit
	return r.snapshot, r.err
}

func (r *stubRepo) Products(_ context.Context) ([]model.Product, error) {
	return r.products, r.err
}

func TestDashboardUsesSnapshot(t *testing.T) {
	repo := &stubRepo{snapshot: &report.Snapshot{
		Orders:    []model.Order{{Amount: decimal.RequireFromString("12.5"), Status: "Pending", OrderDate: time.Now()}},
		UserCount: 1,
	}}
	uc := NewReportUseCase(repo, logger.NewNop())

	d, err := uc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, repo.limit)
	assert.Equal(t, "12.50", d.TotalRevenue.StringFixed(2))
	assert.Len(t, d.TopProducts, 4)
}

func TestReportStampsGeneratedAt(t *testing.T) {
	fixed := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	uc := &reportUseCase{repo: &stubRepo{}, logger: logger.NewNop(), now: func() time.Time { return fixed }}

	r, err := uc.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixed, r.GeneratedAt)
}

func TestErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	uc := NewReportUseCase(&stubRepo{err: boom}, logger.NewNop())

	_, err := uc.Dashboard(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = uc.Report(context.Background())
	assert.ErrorIs(t, err, boom)
}
