package core

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/edvin/botfarm/internal/model"
)

// MetricsService folds raw resource samples into hour-wide chart buckets and
// computes current fleet stats. It only reads; lifecycle state is never
// touched from here.
type MetricsService struct {
	db DB
}

func NewMetricsService(db DB) *MetricsService {
	return &MetricsService{db: db}
}

const defaultLookbackHours = 24

// ChartPoint is one non-empty hour bucket: mean cpu and memory across all
// samples recorded in that hour, labeled with the bucket's wall-clock time.
type ChartPoint struct {
	Time   string  `json:"time"`
	CPU    float64 `json:"cpu"`
	Memory float64 `json:"memory"`
}

// FleetStats summarizes the caller's current bot rows plus the fixed policy
// constants the dashboard renders limit gauges against.
type FleetStats struct {
	TotalBots       int     `json:"totalBots"`
	RunningBots     int     `json:"runningBots"`
	TotalCPU        float64 `json:"totalCpu"`
	TotalMemory     float64 `json:"totalMemory"`
	MaxBots         int     `json:"maxBots"`
	MaxCPUPerBot    float64 `json:"maxCpuPerBot"`
	MaxMemoryPerBot float64 `json:"maxMemoryPerBot"`
}

type MetricsOverview struct {
	ChartData []ChartPoint `json:"chartData"`
	Stats     FleetStats   `json:"stats"`
	Bots      []model.Bot  `json:"bots"`
}

// Overview builds the metrics payload for the caller. An optional bot id
// narrows the chart to one bot; it must belong to the caller. A caller with
// zero bots gets empty chart data and zeroed stats, never an error.
func (s *MetricsService) Overview(ctx context.Context, caller model.Identity, botID *string, hours int) (*MetricsOverview, error) {
	if hours <= 0 {
		hours = defaultLookbackHours
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+botColumns+` FROM bots WHERE user_id = $1 ORDER BY created_at DESC`, caller.UserID)
	if err != nil {
		return nil, errStorage("list bots", err)
	}
	defer rows.Close()

	var bots []model.Bot
	for rows.Next() {
		b, err := scanBot(rows)
		if err != nil {
			return nil, errStorage("scan bot", err)
		}
		bots = append(bots, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errStorage("iterate bots", err)
	}

	overview := &MetricsOverview{
		ChartData: []ChartPoint{},
		Bots:      bots,
		Stats: FleetStats{
			MaxBots:         model.MaxBotsPerUser,
			MaxCPUPerBot:    model.MaxCPUPercent,
			MaxMemoryPerBot: model.MaxMemoryMB,
		},
	}

	sampleIDs := make([]string, 0, len(bots))
	for _, b := range bots {
		overview.Stats.TotalBots++
		if b.Status == model.StatusOnline {
			overview.Stats.RunningBots++
		}
		overview.Stats.TotalCPU += b.CPUUsage
		overview.Stats.TotalMemory += b.MemoryUsage
		sampleIDs = append(sampleIDs, b.ID)
	}
	overview.Stats.TotalCPU = round1(overview.Stats.TotalCPU)
	overview.Stats.TotalMemory = round1(overview.Stats.TotalMemory)

	if botID != nil {
		owned := false
		for _, b := range bots {
			if b.ID == *botID {
				owned = true
				break
			}
		}
		if !owned {
			return nil, errAccessDenied()
		}
		sampleIDs = []string{*botID}
	}

	if len(sampleIDs) == 0 {
		return overview, nil
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	chart, err := s.chartData(ctx, sampleIDs, since)
	if err != nil {
		return nil, err
	}
	overview.ChartData = chart
	return overview, nil
}

// chartData groups samples by their UTC-truncated hour and averages each
// bucket, emitting points chronologically with 24-hour HH:MM labels.
func (s *MetricsService) chartData(ctx context.Context, botIDs []string, since time.Time) ([]ChartPoint, error) {
	rows, err := s.db.Query(ctx,
		`SELECT cpu_usage, memory_usage, recorded_at FROM resource_samples
		 WHERE bot_id = ANY($1) AND recorded_at >= $2
		 ORDER BY recorded_at`, botIDs, since)
	if err != nil {
		return nil, errStorage("list resource samples", err)
	}
	defer rows.Close()

	type bucket struct {
		cpu, mem float64
		n        int
	}
	buckets := make(map[time.Time]*bucket)

	for rows.Next() {
		var cpu, mem float64
		var recordedAt time.Time
		if err := rows.Scan(&cpu, &mem, &recordedAt); err != nil {
			return nil, errStorage("scan resource sample", err)
		}
		hour := recordedAt.UTC().Truncate(time.Hour)
		b, ok := buckets[hour]
		if !ok {
			b = &bucket{}
			buckets[hour] = b
		}
		b.cpu += cpu
		b.mem += mem
		b.n++
	}
	if err := rows.Err(); err != nil {
		return nil, errStorage("iterate resource samples", err)
	}

	hours := make([]time.Time, 0, len(buckets))
	for h := range buckets {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Before(hours[j]) })

	points := make([]ChartPoint, 0, len(hours))
	for _, h := range hours {
		b := buckets[h]
		points = append(points, ChartPoint{
			Time:   h.Format("15:04"),
			CPU:    round1(b.cpu / float64(b.n)),
			Memory: round1(b.mem / float64(b.n)),
		})
	}
	return points, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
