package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hupe1980/brandmesh/core"
	"github.com/hupe1980/brandmesh/internal/util"
	"github.com/hupe1980/brandmesh/logging"
	"github.com/hupe1980/brandmesh/model"
)

const (
	maxExamples  = 10
	maxLearnings = 20
)

// profile field keys in the tenant store. The tenant registry seeds the same
// keys at creation, so get-profile works before the agent's first update.
const (
	keyVoice    = "brand_voice"
	keyTone     = "brand_tone"
	keyAudience = "brand_audience"
	keyIndustry = "brand_industry"
	keyKeywords = "brand_keywords"
)

type profileInput struct {
	Voice    string   `json:"voice,omitempty"`
	Tone     string   `json:"tone,omitempty"`
	Audience string   `json:"audience,omitempty"`
	Industry string   `json:"industry,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

type exampleInput struct {
	Content string `json:"content"`
}

type feedbackInput struct {
	Feedback string `json:"feedback"`
}

// BrandOptions configure a BrandAgent.
type BrandOptions struct {
	Logger logging.Logger
}

// BrandAgent maintains a tenant's brand profile: voice and tone fields,
// curated content examples, and learnings distilled from feedback with the
// help of a model. All state lives in the tenant's store under the agent's
// own attribution, so guidelines rendering and other agents can read it.
type BrandAgent struct {
	BaseAgent
	store core.MemoryStore
	model model.Model
}

var _ core.Agent = (*BrandAgent)(nil)

// NewBrandAgent builds the brand manager bound to one tenant's store. The
// model is only needed for learn-from-feedback and may be nil otherwise.
func NewBrandAgent(store core.MemoryStore, m model.Model, optFns ...func(o *BrandOptions)) *BrandAgent {
	opts := BrandOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := &BrandAgent{
		BaseAgent: NewBaseAgent(core.BrandManagerName,
			"Maintains the tenant's brand profile, examples and learnings", "1.0.0", opts.Logger),
		store: store,
		model: m,
	}

	a.RegisterHandler(core.Capability{
		Name:        "update-profile",
		Description: "Update brand profile fields; absent fields stay unchanged",
		InputSchema: util.TypeHints(profileInput{}),
	}, a.updateProfile)
	a.RegisterHandler(core.Capability{
		Name:        "get-profile",
		Description: "Read the current brand profile fields",
	}, a.getProfile)
	a.RegisterHandler(core.Capability{
		Name:        "add-example",
		Description: fmt.Sprintf("Store a content example, keeping at most %d", maxExamples),
		InputSchema: util.TypeHints(exampleInput{}),
	}, a.addExample)
	a.RegisterHandler(core.Capability{
		Name:        "learn-from-feedback",
		Description: "Distill feedback into brand learnings via the model",
		InputSchema: util.TypeHints(feedbackInput{}),
	}, a.learnFromFeedback)

	return a
}

func (a *BrandAgent) updateProfile(ctx context.Context, task *core.Message) (any, error) {
	fields := map[string]string{
		keyVoice:    inputString(task, "voice"),
		keyTone:     inputString(task, "tone"),
		keyAudience: inputString(task, "audience"),
		keyIndustry: inputString(task, "industry"),
	}

	updated := 0
	for key, value := range fields {
		if value == "" {
			continue
		}
		if err := a.store.Set(ctx, key, value, a.Name(), []string{"brand"}); err != nil {
			return nil, fmt.Errorf("store profile field %s: %w", key, err)
		}
		updated++
	}

	if additions := inputStrings(task, "keywords"); len(additions) > 0 {
		merged, err := a.unionKeywords(ctx, additions)
		if err != nil {
			return nil, err
		}
		if err := a.store.Set(ctx, keyKeywords, merged, a.Name(), []string{"brand"}); err != nil {
			return nil, fmt.Errorf("store profile field %s: %w", keyKeywords, err)
		}
		updated++
	}

	if updated == 0 {
		return nil, &util.ValidationError{Field: "voice|tone|audience|industry|keywords",
			Message: "at least one profile field is required"}
	}

	return a.readProfile(ctx)
}

// unionKeywords merges additions into the stored keyword list, deduplicated,
// order preserved. The agent owns the read-modify-write; the store never
// merges.
func (a *BrandAgent) unionKeywords(ctx context.Context, additions []string) ([]string, error) {
	existing, found, err := a.store.Get(ctx, keyKeywords)
	if err != nil {
		return nil, fmt.Errorf("read profile field %s: %w", keyKeywords, err)
	}
	merged := []string{}
	seen := map[string]bool{}
	if found {
		for _, v := range toStrings(existing) {
			if !seen[v] {
				seen[v] = true
				merged = append(merged, v)
			}
		}
	}
	for _, v := range additions {
		if !seen[v] {
			seen[v] = true
			merged = append(merged, v)
		}
	}
	return merged, nil
}

func (a *BrandAgent) getProfile(ctx context.Context, _ *core.Message) (any, error) {
	return a.readProfile(ctx)
}

func (a *BrandAgent) readProfile(ctx context.Context) (map[string]any, error) {
	profile := map[string]any{}
	for field, key := range map[string]string{
		"voice": keyVoice, "tone": keyTone, "audience": keyAudience,
		"industry": keyIndustry, "keywords": keyKeywords,
	} {
		value, found, err := a.store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read profile field %s: %w", key, err)
		}
		if found {
			profile[field] = value
		}
	}
	return profile, nil
}

func (a *BrandAgent) addExample(ctx context.Context, task *core.Message) (any, error) {
	if err := util.ValidateRequired(task.Task.Input, "content"); err != nil {
		return nil, err
	}

	key := "example:" + core.NewID()
	if err := a.store.Set(ctx, key, inputString(task, "content"), a.Name(), []string{"example"}); err != nil {
		return nil, fmt.Errorf("store example: %w", err)
	}
	if err := a.evictOldest(ctx, "example:", maxExamples); err != nil {
		return nil, err
	}

	return map[string]any{"key": key}, nil
}

// learnFromFeedback asks the model to distill raw feedback into short
// learnings. A JSON answer of the shape {"learnings": ["..."]} is preferred;
// anything unparseable is kept verbatim as a single learning.
func (a *BrandAgent) learnFromFeedback(ctx context.Context, task *core.Message) (any, error) {
	if err := util.ValidateRequired(task.Task.Input, "feedback"); err != nil {
		return nil, err
	}
	if a.model == nil {
		return nil, fmt.Errorf("learn-from-feedback requires a model")
	}

	feedback := inputString(task, "feedback")
	resp, err := a.model.Chat(ctx, []model.Message{
		{Role: "system", Content: "You distill content feedback into short, actionable brand learnings. " +
			`Answer with JSON: {"learnings": ["..."]}.`},
		{Role: "user", Content: feedback},
	})
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	learnings := extractLearnings(resp.Content)
	if len(learnings) == 0 {
		learnings = []string{strings.TrimSpace(resp.Content)}
	}

	stored := make([]string, 0, len(learnings))
	for _, l := range learnings {
		key := "learning:" + core.NewID()
		if err := a.store.Set(ctx, key, l, a.Name(), []string{"learning"}); err != nil {
			return nil, fmt.Errorf("store learning: %w", err)
		}
		stored = append(stored, l)
	}
	if err := a.evictOldest(ctx, "learning:", maxLearnings); err != nil {
		return nil, err
	}

	return map[string]any{"learnings": stored}, nil
}

// evictOldest trims entries under the key prefix down to limit, dropping the
// oldest first.
func (a *BrandAgent) evictOldest(ctx context.Context, prefix string, limit int) error {
	entries, err := a.store.Search(ctx, prefix)
	if err != nil {
		return fmt.Errorf("list %s entries: %w", prefix, err)
	}
	if len(entries) <= limit {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].UpdatedAt.Equal(entries[j].UpdatedAt) {
			return entries[i].Key < entries[j].Key
		}
		return entries[i].UpdatedAt.Before(entries[j].UpdatedAt)
	})
	for _, e := range entries[:len(entries)-limit] {
		if _, err := a.store.Delete(ctx, e.Key); err != nil {
			return fmt.Errorf("evict %s: %w", e.Key, err)
		}
	}
	return nil
}

// inputStrings reads a string-list field from the task input, tolerating both
// []string from in-process callers and []any from JSON decoding.
func inputStrings(task *core.Message, field string) []string {
	if task.Task == nil || task.Task.Input == nil {
		return nil
	}
	return toStrings(task.Task.Input[field])
}

func toStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// extractLearnings pulls the learnings array out of a model answer.
func extractLearnings(text string) []string {
	ex := model.ExtractJSON(text)
	if !ex.Parsed {
		return nil
	}
	raw, ok := ex.Value["learnings"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
