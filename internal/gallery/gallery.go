package gallery

import (
	"context"
	"fmt"
	"sort"
	"time"

	"manifest-gallery/internal/fetcher"
	"manifest-gallery/internal/logging"
	"manifest-gallery/internal/manifest"
	"manifest-gallery/internal/metrics"
	"manifest-gallery/internal/resolver"
	"manifest-gallery/internal/templates"

	"golang.org/x/sync/errgroup"
)

// Item is one renderable gallery entry. Image items carry a PreviewID
// resolving to verified payload bytes; video items are link-only.
type Item struct {
	Caption     string `json:"caption"`
	DisplayName string `json:"displayName"`
	URL         string `json:"url"`
	Label       string `json:"label"`
	PreviewID   string `json:"previewId,omitempty"`
}

// RenderedSection is a section prepared for display. Total counts the
// section's manifest entries, including image entries that resolved to
// nothing and are therefore absent from Items.
type RenderedSection struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
	Items []Item `json:"items"`
}

// Gallery is the full render model handed to the presentation layer.
// Sections are sorted alphabetically by name; items within a section
// keep manifest encounter order.
type Gallery struct {
	Mode        manifest.Mode      `json:"mode"`
	Labels      []string           `json:"labels"`
	Fingerprint string             `json:"fingerprint"`
	Sections    []RenderedSection  `json:"sections"`
	Warnings    []manifest.Warning `json:"warnings,omitempty"`
	BuiltAt     time.Time          `json:"builtAt"`
}

// Builder runs the parse -> resolve -> fetch pipeline and assembles the
// render model. It holds no per-manifest state; the caller owns change
// detection and caching of the result.
type Builder struct {
	fetcher *fetcher.Fetcher
	store   *Store
	workers int
}

// NewBuilder creates a Builder. workers bounds how many candidates are
// fetched concurrently in image mode.
func NewBuilder(f *fetcher.Fetcher, store *Store, workers int) *Builder {
	if workers < 1 {
		workers = 1
	}
	return &Builder{fetcher: f, store: store, workers: workers}
}

// Build parses text and resolves every entry through the selected
// templates. One bad line or one fully-failed candidate never prevents
// any other entry from being processed: warnings are collected, failed
// image candidates simply produce no item.
func (b *Builder) Build(ctx context.Context, text string, mode manifest.Mode, selected []templates.Template) *Gallery {
	start := time.Now()
	defer func() {
		metrics.GalleryBuildDuration.Observe(time.Since(start).Seconds())
	}()

	doc := manifest.Parse(text, mode)
	metrics.ManifestsParsedTotal.Inc()
	for _, w := range doc.Warnings {
		metrics.ParseWarningsTotal.Inc()
		logging.Warn("manifest line %d skipped: %s (%q)", w.Line, w.Reason, w.Text)
	}

	labels := make([]string, 0, len(selected))
	for _, t := range selected {
		labels = append(labels, t.Label)
	}

	g := &Gallery{
		Mode:        mode,
		Labels:      labels,
		Fingerprint: manifest.Fingerprint(text),
		Warnings:    doc.Warnings,
		BuiltAt:     time.Now(),
	}

	results := b.resolveAll(ctx, doc, mode, selected)

	for _, section := range doc.Sections {
		rendered := RenderedSection{
			Name:  section.Name,
			Total: len(section.Entries),
			Items: make([]Item, 0, len(section.Entries)),
		}
		for idx, entry := range section.Entries {
			res := results[entryKey{section.Name, idx}]
			if !res.OK {
				// Exhausted fallback: render nothing for this entry.
				continue
			}
			item := Item{
				Caption:     fmt.Sprintf("%s_%03d", section.Name, idx+1),
				DisplayName: entry.DisplayName,
				URL:         res.URL,
				Label:       res.Label,
			}
			if len(res.Payload) > 0 {
				item.PreviewID = b.store.Put(res.Payload, res.ContentType)
			}
			rendered.Items = append(rendered.Items, item)
		}
		g.Sections = append(g.Sections, rendered)
	}

	sort.Slice(g.Sections, func(i, j int) bool {
		return g.Sections[i].Name < g.Sections[j].Name
	})

	return g
}

type entryKey struct {
	section string
	index   int
}

// resolveAll fans candidate resolution out across a bounded worker pool
// in image mode. Completion order is irrelevant: display order is
// imposed when sections are assembled, so concurrency cannot change
// observable results.
func (b *Builder) resolveAll(ctx context.Context, doc *manifest.Document, mode manifest.Mode, selected []templates.Template) map[entryKey]fetcher.Result {
	type job struct {
		key        entryKey
		candidates []resolver.Candidate
	}

	var jobs []job
	for _, section := range doc.Sections {
		for idx, entry := range section.Entries {
			jobs = append(jobs, job{
				key:        entryKey{section.Name, idx},
				candidates: resolver.Resolve(section.Name, idx, entry, selected),
			})
		}
	}

	results := make([]fetcher.Result, len(jobs))

	if mode == manifest.ModeVideo {
		for i, j := range jobs {
			results[i] = fetcher.LinkOnly(j.candidates)
		}
	} else {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(b.workers)
		for i, j := range jobs {
			i, j := i, j
			eg.Go(func() error {
				results[i] = b.fetcher.FetchWithFallback(egCtx, j.candidates)
				return nil
			})
		}
		// Workers never return errors; failures are swallowed per mirror.
		_ = eg.Wait()
	}

	byKey := make(map[entryKey]fetcher.Result, len(jobs))
	for i, j := range jobs {
		byKey[j.key] = results[i]
	}
	return byKey
}
