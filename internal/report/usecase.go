package report

import "context"

type UseCase interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	Report(ctx context.Context) (*Report, error)
}
