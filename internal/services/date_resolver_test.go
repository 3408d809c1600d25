package services

import (
	"context"
	"testing"
	"time"

	"github.com/labcore/results-export-service/internal/models"
	"github.com/labcore/results-export-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReportRepository is a mock implementation of repositories.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) CountByDatePrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) LatestNumericDatePrefix(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockReportRepository) FetchReportRows(ctx context.Context, prefix string) ([]models.ResultRow, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ResultRow), args.Error(1)
}

func (m *MockReportRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestDateResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	logger := utils.NewDefaultLogger()
	today := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("requested date has data", func(t *testing.T) {
		repo := new(MockReportRepository)
		repo.On("CountByDatePrefix", ctx, "20240315").Return(int64(5), nil)

		resolver := NewDateResolver(repo, logger)
		filter, display := resolver.Resolve(ctx, "15-03-2024", today)

		assert.Equal(t, "20240315", filter)
		assert.Equal(t, "15-03-2024", display)
		repo.AssertNotCalled(t, "LatestNumericDatePrefix", ctx)
	})

	t.Run("falls back to most recent date with data", func(t *testing.T) {
		repo := new(MockReportRepository)
		repo.On("CountByDatePrefix", ctx, "20240315").Return(int64(0), nil)
		repo.On("LatestNumericDatePrefix", ctx).Return("20240310", nil)

		resolver := NewDateResolver(repo, logger)
		filter, display := resolver.Resolve(ctx, "15-03-2024", today)

		assert.Equal(t, "20240310", filter)
		assert.Equal(t, "10-03-2024", display)
	})

	t.Run("no numeric prefix exists, keeps original filter", func(t *testing.T) {
		repo := new(MockReportRepository)
		repo.On("CountByDatePrefix", ctx, "20240315").Return(int64(0), nil)
		repo.On("LatestNumericDatePrefix", ctx).Return("", nil)

		resolver := NewDateResolver(repo, logger)
		filter, display := resolver.Resolve(ctx, "15-03-2024", today)

		assert.Equal(t, "20240315", filter)
		assert.Equal(t, "15-03-2024", display)
	})

	t.Run("unparsable fallback prefix is displayed raw", func(t *testing.T) {
		repo := new(MockReportRepository)
		repo.On("CountByDatePrefix", ctx, "20240315").Return(int64(0), nil)
		repo.On("LatestNumericDatePrefix", ctx).Return("20241399", nil)

		resolver := NewDateResolver(repo, logger)
		filter, display := resolver.Resolve(ctx, "15-03-2024", today)

		assert.Equal(t, "20241399", filter)
		assert.Equal(t, "20241399", display)
	})

	t.Run("invalid input falls back to current date", func(t *testing.T) {
		repo := new(MockReportRepository)
		repo.On("CountByDatePrefix", ctx, "20240601").Return(int64(3), nil)

		resolver := NewDateResolver(repo, logger)
		filter, display := resolver.Resolve(ctx, "31-13-2024", today)

		assert.Equal(t, "20240601", filter)
		assert.Equal(t, "01-06-2024", display)
	})

	t.Run("empty input uses current date", func(t *testing.T) {
		repo := new(MockReportRepository)
		repo.On("CountByDatePrefix", ctx, "20240601").Return(int64(1), nil)

		resolver := NewDateResolver(repo, logger)
		filter, display := resolver.Resolve(ctx, "", today)

		assert.Equal(t, "20240601", filter)
		assert.Equal(t, "01-06-2024", display)
	})

	t.Run("probe failure keeps requested filter", func(t *testing.T) {
		repo := new(MockReportRepository)
		repo.On("CountByDatePrefix", ctx, "20240315").Return(int64(0), assert.AnError)

		resolver := NewDateResolver(repo, logger)
		filter, display := resolver.Resolve(ctx, "15-03-2024", today)

		assert.Equal(t, "20240315", filter)
		assert.Equal(t, "15-03-2024", display)
		repo.AssertNotCalled(t, "LatestNumericDatePrefix", ctx)
	})
}
