package compare

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/caseforge/casescan/internal/model"
)

// BuildDocuments groups indexed pages into attributed document spans.
// Consecutive pages of a volume sharing the same role merge into one
// span; pages with no attribution are skipped, since a pair needs two
// distinct authors to be worth comparing.
func BuildDocuments(pages []model.Page, roleFor func(volume, page int) string) []model.DocumentRef {
	sorted := make([]model.Page, len(pages))
	copy(sorted, pages)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].VolumeNumber != sorted[j].VolumeNumber {
			return sorted[i].VolumeNumber < sorted[j].VolumeNumber
		}
		return sorted[i].PageNumber < sorted[j].PageNumber
	})

	var docs []model.DocumentRef
	var texts []string
	firstPage, lastPage := 0, 0

	flush := func(volume int, role string) {
		if len(texts) == 0 {
			return
		}
		docs = append(docs, model.DocumentRef{
			VolumeNumber: volume,
			PageRange:    pageRange(firstPage, lastPage),
			Author:       role,
			Text:         strings.Join(texts, "\n"),
		})
		texts = nil
	}

	currVolume, currRole := 0, ""
	for _, p := range sorted {
		role := roleFor(p.VolumeNumber, p.PageNumber)
		if role == "" {
			flush(currVolume, currRole)
			currRole = ""
			continue
		}
		if len(texts) > 0 && (p.VolumeNumber != currVolume || role != currRole || p.PageNumber != lastPage+1) {
			flush(currVolume, currRole)
		}
		if len(texts) == 0 {
			currVolume, currRole, firstPage = p.VolumeNumber, role, p.PageNumber
		}
		texts = append(texts, p.Text)
		lastPage = p.PageNumber
	}
	flush(currVolume, currRole)

	return docs
}

func pageRange(first, last int) string {
	if first == last {
		return fmt.Sprintf("%d", first)
	}
	return fmt.Sprintf("%d-%d", first, last)
}

// Sweep compares every cross-author document pair and returns the
// suspicious ones, highest textual similarity first. Pairs are scored
// by a bounded worker pool; one failed pair aborts the sweep since the
// engine itself only fails on context cancellation.
func (e *Engine) Sweep(ctx context.Context, docs []model.DocumentRef) ([]*model.Comparison, error) {
	type pair struct{ i, j int }
	var pairs []pair
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			if docs[i].Author != docs[j].Author {
				pairs = append(pairs, pair{i, j})
			}
		}
	}

	var mu sync.Mutex
	var suspicious []*model.Comparison

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, p := range pairs {
		g.Go(func() error {
			c, err := e.Compare(ctx, Input{Doc1: docs[p.i], Doc2: docs[p.j]})
			if err != nil {
				return err
			}
			if c.IsSuspicious {
				mu.Lock()
				suspicious = append(suspicious, c)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("comparison sweep failed: %w", err)
	}

	sort.Slice(suspicious, func(i, j int) bool {
		return suspicious[i].TextSimilarity > suspicious[j].TextSimilarity
	})
	return suspicious, nil
}
