// Package generation drafts platform-specific post variants: one prompt per
// platform, one model call, then normalization to the platform's shape.
package generation

import (
	"context"
	"sync"

	"github.com/jonathan/postsphere/internal/llm"
	"github.com/jonathan/postsphere/internal/platform"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrency bounds simultaneous model calls in GenerateAll.
const DefaultMaxConcurrency = 4

// Variant is the normalized draft for one platform.
type Variant struct {
	Platform platform.ID     `json:"platform"`
	Raw      string          `json:"-"`
	Content  string          `json:"content"`
	Report   platform.Report `json:"report"`
}

// Batch collects the outcome of a multi-platform generation.
// Variants and Errors are keyed by platform; a platform appears in exactly one.
type Batch struct {
	Variants map[platform.ID]Variant
	Errors   map[platform.ID]error
}

// Contents returns the normalized text of every successful variant.
func (b Batch) Contents() map[platform.ID]string {
	out := make(map[platform.ID]string, len(b.Variants))
	for id, v := range b.Variants {
		out[id] = v.Content
	}
	return out
}

// Options configures a Generator.
type Options struct {
	Tier           llm.ModelTier
	MaxConcurrency int
	Logger         *zap.Logger
	// OnVariant, if set, is called once per platform as soon as it finishes.
	// Calls may come from several goroutines but are serialized.
	OnVariant func(id platform.ID, v *Variant, err error)
}

// Generator runs the per-platform generation pipeline.
type Generator struct {
	client llm.Client
	opts   Options
}

// NewGenerator creates a Generator backed by client.
func NewGenerator(client llm.Client, opts Options) *Generator {
	if opts.Tier == "" {
		opts.Tier = llm.TierStandard
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultMaxConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Generator{client: client, opts: opts}
}

// Generate drafts and normalizes a post for a single platform.
func (g *Generator) Generate(ctx context.Context, theme string, id platform.ID) (Variant, error) {
	rules, ok := platform.Lookup(id)
	if !ok {
		return Variant{}, &UnknownPlatformError{Platform: id}
	}

	prompt := BuildPrompt(rules, theme)
	g.opts.Logger.Debug("generating variant",
		zap.String("platform", string(id)),
		zap.String("model", g.client.GetModel(g.opts.Tier)),
		zap.Int("prompt_len", len(prompt)))

	raw, err := g.client.GenerateContent(ctx, prompt, g.opts.Tier)
	if err != nil {
		return Variant{}, &GenerationError{Platform: id, Cause: err}
	}
	raw = llm.StripCodeFence(raw)

	content := platform.Normalize(raw, id)
	return Variant{
		Platform: id,
		Raw:      raw,
		Content:  content,
		Report:   platform.Analyze(content, id),
	}, nil
}

// GenerateAll drafts a variant for every platform in ids. Each platform runs
// its own pipeline; a failure is recorded for that platform only and never
// cancels the others. Duplicate ids are generated once.
func (g *Generator) GenerateAll(ctx context.Context, theme string, ids []platform.ID) Batch {
	batch := Batch{
		Variants: make(map[platform.ID]Variant),
		Errors:   make(map[platform.ID]error),
	}
	if len(ids) == 0 {
		return batch
	}

	var (
		mu   sync.Mutex
		seen = make(map[platform.ID]bool, len(ids))
		eg   errgroup.Group
	)
	eg.SetLimit(g.opts.MaxConcurrency)

	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		eg.Go(func() error {
			v, err := g.Generate(ctx, theme, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				g.opts.Logger.Warn("variant generation failed",
					zap.String("platform", string(id)), zap.Error(err))
				batch.Errors[id] = err
				if g.opts.OnVariant != nil {
					g.opts.OnVariant(id, nil, err)
				}
				return nil
			}
			batch.Variants[id] = v
			if g.opts.OnVariant != nil {
				g.opts.OnVariant(id, &v, nil)
			}
			return nil
		})
	}
	_ = eg.Wait()

	g.opts.Logger.Info("generation finished",
		zap.Int("succeeded", len(batch.Variants)),
		zap.Int("failed", len(batch.Errors)))
	return batch
}

// WithOnVariant returns a copy of g that reports progress to fn.
func (g *Generator) WithOnVariant(fn func(id platform.ID, v *Variant, err error)) *Generator {
	opts := g.opts
	opts.OnVariant = fn
	return &Generator{client: g.client, opts: opts}
}
