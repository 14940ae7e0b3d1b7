package tenant

import (
	"context"
	"sort"
	"strings"

	"github.com/hupe1980/brandmesh/core"
	"github.com/hupe1980/brandmesh/internal/util"
)

// maxGuidelineLearnings caps how many accumulated brand-manager entries are
// folded into the rendered guidelines.
const maxGuidelineLearnings = 10

const guidelinesTemplate = `Brand Guidelines for {{.Name}}

Voice: {{.Voice}}
Tone: {{.Tone}}
Audience: {{.Audience}}
Industry: {{.Industry}}
{{- if .Keywords}}
Keywords to include: {{join ", " .Keywords}}
{{- end}}
{{- if .AvoidWords}}
Words to avoid: {{join ", " .AvoidWords}}
{{- end}}
{{- if .Learnings}}

Accumulated learnings:
{{- range .Learnings}}
- {{.}}
{{- end}}
{{- end}}
`

// BrandGuidelines renders a human-readable guidelines document from the
// tenant's brand profile and the most recent entries the brand manager has
// accumulated in the tenant's store. Unknown tenants render as the empty
// string; a store read failure degrades to guidelines without learnings.
func (r *Registry) BrandGuidelines(ctx context.Context, id string) string {
	rec, ok := r.Get(id)
	if !ok {
		return ""
	}

	state := map[string]any{
		"Name":       rec.Name,
		"Voice":      rec.Brand.Voice,
		"Tone":       rec.Brand.Tone,
		"Audience":   rec.Brand.Audience,
		"Industry":   rec.Brand.Industry,
		"Keywords":   rec.Brand.Keywords,
		"AvoidWords": rec.Brand.AvoidWords,
		"Learnings":  r.recentLearnings(ctx, id),
	}

	out, err := util.RenderTemplate(guidelinesTemplate, state)
	if err != nil {
		r.logger.Error("render brand guidelines", "tenant_id", id, "error", err)
		return ""
	}
	return out
}

// recentLearnings collects the newest brand-manager-attributed entries,
// skipping the seeded scalar keys already present in the profile section.
func (r *Registry) recentLearnings(ctx context.Context, id string) []string {
	store, ok := r.Memory(id)
	if !ok {
		return nil
	}
	entries, err := store.ByAgent(ctx, core.BrandManagerName)
	if err != nil {
		r.logger.Warn("brand learnings unavailable", "tenant_id", id, "error", err)
		return nil
	}

	filtered := entries[:0]
	for _, e := range entries {
		if strings.HasPrefix(e.Key, "brand_") || strings.HasPrefix(e.Key, "brand:") {
			continue
		}
		filtered = append(filtered, e)
	}
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].UpdatedAt.Equal(filtered[j].UpdatedAt) {
			return filtered[i].Key < filtered[j].Key
		}
		return filtered[i].UpdatedAt.After(filtered[j].UpdatedAt)
	})
	if len(filtered) > maxGuidelineLearnings {
		filtered = filtered[:maxGuidelineLearnings]
	}

	out := make([]string, 0, len(filtered))
	for _, e := range filtered {
		if s, ok := e.Value.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
