package agent

import (
	"context"
	"fmt"
	"sort"

	"github.com/hupe1980/brandmesh/core"
	"github.com/hupe1980/brandmesh/internal/util"
	"github.com/hupe1980/brandmesh/logging"
)

type metricsInput struct {
	PostID   string         `json:"post_id"`
	Platform string         `json:"platform,omitempty"`
	Metrics  map[string]any `json:"metrics"`
}

// AnalyticsOptions configure an AnalyticsAgent.
type AnalyticsOptions struct {
	Logger logging.Logger
}

// AnalyticsAgent records per-post engagement metrics in the tenant's store
// and aggregates them into reports. Recording the same post again overwrites
// the previous snapshot.
type AnalyticsAgent struct {
	BaseAgent
	store core.MemoryStore
}

var _ core.Agent = (*AnalyticsAgent)(nil)

// NewAnalyticsAgent builds the analytics agent bound to one tenant's store.
func NewAnalyticsAgent(store core.MemoryStore, optFns ...func(o *AnalyticsOptions)) *AnalyticsAgent {
	opts := AnalyticsOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := &AnalyticsAgent{
		BaseAgent: NewBaseAgent(core.AnalyticsName,
			"Records engagement metrics and aggregates performance reports", "1.0.0", opts.Logger),
		store: store,
	}

	a.RegisterHandler(core.Capability{
		Name:        "record-metrics",
		Description: "Store the metrics snapshot for one published post",
		InputSchema: util.TypeHints(metricsInput{}),
	}, a.recordMetrics)
	a.RegisterHandler(core.Capability{
		Name:        "report",
		Description: "Aggregate all recorded metrics into one report",
	}, a.report)

	return a
}

func (a *AnalyticsAgent) recordMetrics(ctx context.Context, task *core.Message) (any, error) {
	if err := util.ValidateRequired(task.Task.Input, "post_id"); err != nil {
		return nil, err
	}
	metrics, ok := task.Task.Input["metrics"].(map[string]any)
	if !ok {
		return nil, &util.ValidationError{Field: "metrics", Value: task.Task.Input["metrics"],
			Message: "metrics object is required"}
	}

	platform := inputString(task, "platform")
	tags := []string{"metrics"}
	if platform != "" {
		tags = append(tags, platform)
	}

	key := "metrics:" + inputString(task, "post_id")
	record := map[string]any{"platform": platform, "metrics": metrics}
	if err := a.store.Set(ctx, key, record, a.Name(), tags); err != nil {
		return nil, fmt.Errorf("store metrics: %w", err)
	}

	return map[string]any{"key": key}, nil
}

// report sums every numeric metric across recorded posts. Totals are keyed by
// metric name; the post and per-platform counts come along for context.
func (a *AnalyticsAgent) report(ctx context.Context, _ *core.Message) (any, error) {
	entries, err := a.store.Search(ctx, "metrics:")
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}

	totals := map[string]float64{}
	platforms := map[string]int{}
	for _, e := range entries {
		record, ok := e.Value.(map[string]any)
		if !ok {
			continue
		}
		if p, _ := record["platform"].(string); p != "" {
			platforms[p]++
		}
		metrics, _ := record["metrics"].(map[string]any)
		for name, v := range metrics {
			if n, ok := asNumber(v); ok {
				totals[name] += n
			}
		}
	}

	averages := map[string]float64{}
	if len(entries) > 0 {
		for name, total := range totals {
			averages[name] = total / float64(len(entries))
		}
	}

	return map[string]any{
		"posts":     len(entries),
		"totals":    totals,
		"averages":  averages,
		"platforms": platforms,
		"top_posts": topPosts(entries, 3),
	}, nil
}

// topPosts ranks posts by the sum of their numeric metrics.
func topPosts(entries []core.MemoryEntry, limit int) []string {
	type scored struct {
		key   string
		score float64
	}
	ranked := make([]scored, 0, len(entries))
	for _, e := range entries {
		record, ok := e.Value.(map[string]any)
		if !ok {
			continue
		}
		metrics, _ := record["metrics"].(map[string]any)
		var sum float64
		for _, v := range metrics {
			if n, ok := asNumber(v); ok {
				sum += n
			}
		}
		ranked = append(ranked, scored{key: e.Key, score: sum})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score == ranked[j].score {
			return ranked[i].key < ranked[j].key
		}
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.key
	}
	return out
}

// asNumber accepts the numeric types JSON decoding and in-process callers
// produce.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
