package tenant

import (
	"strings"
	"time"
)

// Brand defaults mirror the brand-manager agent's defaults: a tenant created
// with nothing but a name behaves like one the agent profiled itself.
const (
	DefaultVoice    = "professional yet approachable"
	DefaultTone     = "friendly and engaging"
	DefaultAudience = "general audience"
	DefaultIndustry = "general"
	DefaultType     = "social-post"
)

// Brand is a tenant's brand profile.
type Brand struct {
	Voice      string   `json:"voice"`
	Tone       string   `json:"tone"`
	Audience   string   `json:"audience"`
	Industry   string   `json:"industry"`
	Keywords   []string `json:"keywords,omitempty"`
	AvoidWords []string `json:"avoid_words,omitempty"`
}

// Settings holds per-tenant generation and publishing preferences.
type Settings struct {
	DefaultType  string   `json:"default_type"`
	DefaultModel string   `json:"default_model,omitempty"`
	AutoPublish  bool     `json:"auto_publish"`
	Platforms    []string `json:"platforms"`
}

// Config is one tenant record. ID is assigned once at creation and never
// reused; Slug is derived from Name when not supplied explicitly.
type Config struct {
	ID        string                       `json:"id"`
	Name      string                       `json:"name"`
	Slug      string                       `json:"slug"`
	Brand     Brand                        `json:"brand"`
	Platforms map[string]map[string]string `json:"platforms,omitempty"`
	Settings  Settings                     `json:"settings"`
	CreatedAt time.Time                    `json:"created_at"`
	UpdatedAt time.Time                    `json:"updated_at"`
}

// Clone returns a deep copy so callers can never mutate registry-owned state.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Brand.Keywords = cloneStrings(c.Brand.Keywords)
	clone.Brand.AvoidWords = cloneStrings(c.Brand.AvoidWords)
	clone.Settings.Platforms = cloneStrings(c.Settings.Platforms)
	clone.Platforms = clonePlatforms(c.Platforms)
	return &clone
}

// applyDefaults fills every unset field on a freshly created record.
func (c *Config) applyDefaults() {
	if c.Brand.Voice == "" {
		c.Brand.Voice = DefaultVoice
	}
	if c.Brand.Tone == "" {
		c.Brand.Tone = DefaultTone
	}
	if c.Brand.Audience == "" {
		c.Brand.Audience = DefaultAudience
	}
	if c.Brand.Industry == "" {
		c.Brand.Industry = DefaultIndustry
	}
	if c.Settings.DefaultType == "" {
		c.Settings.DefaultType = DefaultType
	}
	if len(c.Settings.Platforms) == 0 {
		c.Settings.Platforms = []string{"local-file"}
	}
}

// Update is a partial tenant update. Nil pointers leave fields untouched;
// Platforms, when non-nil, replaces the credential map wholesale and triggers
// executor re-provisioning.
type Update struct {
	Name      *string                      `json:"name,omitempty"`
	Slug      *string                      `json:"slug,omitempty"`
	Brand     *BrandUpdate                 `json:"brand,omitempty"`
	Settings  *SettingsUpdate              `json:"settings,omitempty"`
	Platforms map[string]map[string]string `json:"platforms,omitempty"`
}

// BrandUpdate deep-merges into Brand. Keywords and AvoidWords are
// union-deduplicated with the existing lists, never replaced.
type BrandUpdate struct {
	Voice      *string  `json:"voice,omitempty"`
	Tone       *string  `json:"tone,omitempty"`
	Audience   *string  `json:"audience,omitempty"`
	Industry   *string  `json:"industry,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	AvoidWords []string `json:"avoid_words,omitempty"`
}

// SettingsUpdate deep-merges into Settings. Platforms (the ordered publish
// list, not credentials) replaces when non-nil.
type SettingsUpdate struct {
	DefaultType  *string  `json:"default_type,omitempty"`
	DefaultModel *string  `json:"default_model,omitempty"`
	AutoPublish  *bool    `json:"auto_publish,omitempty"`
	Platforms    []string `json:"platforms,omitempty"`
}

// mergeBrand applies a BrandUpdate field by field. Merge semantics are
// enumerated here once: scalars replace, word lists union-deduplicate.
func mergeBrand(dst *Brand, u *BrandUpdate) {
	if u == nil {
		return
	}
	if u.Voice != nil {
		dst.Voice = *u.Voice
	}
	if u.Tone != nil {
		dst.Tone = *u.Tone
	}
	if u.Audience != nil {
		dst.Audience = *u.Audience
	}
	if u.Industry != nil {
		dst.Industry = *u.Industry
	}
	dst.Keywords = unionStrings(dst.Keywords, u.Keywords)
	dst.AvoidWords = unionStrings(dst.AvoidWords, u.AvoidWords)
}

func mergeSettings(dst *Settings, u *SettingsUpdate) {
	if u == nil {
		return
	}
	if u.DefaultType != nil {
		dst.DefaultType = *u.DefaultType
	}
	if u.DefaultModel != nil {
		dst.DefaultModel = *u.DefaultModel
	}
	if u.AutoPublish != nil {
		dst.AutoPublish = *u.AutoPublish
	}
	if u.Platforms != nil {
		dst.Platforms = cloneStrings(u.Platforms)
	}
}

// Slugify derives a URL-safe slug: lower-cased, non-alphanumeric runs
// collapsed to a single separator, trimmed.
func Slugify(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// unionStrings appends additions not already present, preserving order.
func unionStrings(existing, additions []string) []string {
	if len(additions) == 0 {
		return existing
	}
	seen := make(map[string]bool, len(existing))
	out := cloneStrings(existing)
	for _, s := range existing {
		seen[s] = true
	}
	for _, s := range additions {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func clonePlatforms(in map[string]map[string]string) map[string]map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]map[string]string, len(in))
	for platform, creds := range in {
		cp := make(map[string]string, len(creds))
		for k, v := range creds {
			cp[k] = v
		}
		out[platform] = cp
	}
	return out
}
