package service

import (
	"context"
	"judge_web/internal/domain/model"
	"judge_web/internal/platform/backend"

	"github.com/samber/lo"
)

type StatisticsBackend interface {
	Statistics(ctx context.Context, auth backend.Auth, taskID string) (*model.TaskStatistics, error)
}

type StatisticsService struct {
	api StatisticsBackend
}

func NewStatisticsService(api StatisticsBackend) *StatisticsService {
	return &StatisticsService{api: api}
}

// Slice is one status share of the statistics chart.
type Slice struct {
	Status  model.SubmissionStatus
	Count   int
	Percent float64
	Color   string
}

type Chart struct {
	Total  int
	Slices []Slice
}

func (s *StatisticsService) Chart(ctx context.Context, auth backend.Auth, taskID string) (*Chart, error) {
	stats, err := s.api.Statistics(ctx, auth, taskID)
	if err != nil {
		return nil, err
	}
	return BuildChart(stats.Statuses), nil
}

// BuildChart derives the share and colour of each status. Zero counts are
// dropped; an empty chart has no slices.
func BuildChart(counts []model.StatusCount) *Chart {
	counts = lo.Filter(counts, func(c model.StatusCount, _ int) bool { return c.Count > 0 })
	total := lo.SumBy(counts, func(c model.StatusCount) int { return c.Count })
	chart := &Chart{Total: total}
	if total == 0 {
		return chart
	}
	chart.Slices = lo.Map(counts, func(c model.StatusCount, _ int) Slice {
		return Slice{
			Status:  c.Status,
			Count:   c.Count,
			Percent: float64(c.Count) * 100 / float64(total),
			Color:   c.Status.ChartColor(),
		}
	})
	return chart
}
