package compare

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/caseforge/casescan/internal/config"
	"github.com/caseforge/casescan/internal/model"
	"github.com/caseforge/casescan/internal/vision"
)

const (
	// fragmentSimilarityThreshold is the sentence-level similarity a
	// pair must exceed to count as a matched fragment.
	fragmentSimilarityThreshold = 80.0

	// suspiciousFragmentCount flags a pair as suspicious on fragment
	// count alone. Fixed: five near-identical sentences between
	// documents by different authors is not coincidence regardless of
	// how the score thresholds are tuned.
	suspiciousFragmentCount = 5

	// criticalSimilarity marks a near-identical copy.
	criticalSimilarity = 90.0

	// highSimilarity marks the lower bound of the high review tier.
	// Fixed independently of the configurable verdict threshold so the
	// review wording keeps a stable meaning across tunings.
	highSimilarity = 70.0

	// systematicFragmentCount marks a systematic sentence-by-sentence
	// copying pattern.
	systematicFragmentCount = 10
)

// Engine compares attributed document spans. It is safe for concurrent
// use: all per-comparison state lives on the stack.
type Engine struct {
	logger *slog.Logger

	minMatchLength  int
	textThreshold   float64
	visualThreshold float64
	workers         int

	stripPhrases []string
	visual       vision.Comparator
}

// Option configures an Engine.
type Option func(*Engine)

// WithBoilerplate enables stripping of known recurring formal phrases
// before doc-level scoring.
func WithBoilerplate(phrases []string) Option {
	return func(e *Engine) { e.stripPhrases = phrases }
}

// WithVisualComparator wires an external vision capability. Visual
// similarity stays "no data" without one.
func WithVisualComparator(v vision.Comparator) Option {
	return func(e *Engine) { e.visual = v }
}

// NewEngine creates a comparison engine with the thresholds from cfg.
func NewEngine(cfg *config.Config, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		logger:          logger,
		minMatchLength:  cfg.MinMatchLength,
		textThreshold:   cfg.SuspiciousTextThreshold,
		visualThreshold: cfg.SuspiciousVisualThreshold,
		workers:         cfg.CompareWorkers,
	}
	if cfg.StripBoilerplate && cfg.CaseFile != nil {
		e.stripPhrases = cfg.CaseFile.Boilerplate
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Input is one comparison request. Image paths are optional; visual
// similarity is only attempted when both are set and a comparator is
// configured.
type Input struct {
	Doc1, Doc2     model.DocumentRef
	Image1, Image2 string
}

// Compare scores one document pair and classifies it. The text score
// always computes; visual scoring failures degrade to "no data" with a
// warning rather than failing the comparison.
func (e *Engine) Compare(ctx context.Context, in Input) (*model.Comparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text1 := stripBoilerplate(in.Doc1.Text, e.stripPhrases)
	text2 := stripBoilerplate(in.Doc2.Text, e.stripPhrases)

	textSim := Similarity(text1, text2)
	fragments := e.matchFragments(in.Doc1.Text, in.Doc2.Text)

	comparison := &model.Comparison{
		ID:               pairID(in.Doc1, in.Doc2),
		Doc1:             in.Doc1,
		Doc2:             in.Doc2,
		TextSimilarity:   textSim,
		MatchedFragments: fragments,
	}

	if e.visual != nil && in.Image1 != "" && in.Image2 != "" {
		score, err := e.visual.Compare(ctx, in.Image1, in.Image2)
		if err != nil {
			e.logger.WarnContext(ctx, "visual comparison failed, continuing with text only",
				slog.Int("volume1", in.Doc1.VolumeNumber),
				slog.Int("volume2", in.Doc2.VolumeNumber),
				slog.String("error", err.Error()))
		} else {
			score = round2(score)
			comparison.VisualSimilarity = &score
		}
	}

	e.classify(comparison)
	return comparison, nil
}

// pairID derives the comparison ID from the identity of the two
// document spans. The key is order-normalized, so rerunning a sweep
// over an unchanged pair replaces the stored record instead of
// inserting a duplicate.
func pairID(doc1, doc2 model.DocumentRef) string {
	k1 := fmt.Sprintf("%d|%s|%s", doc1.VolumeNumber, doc1.PageRange, doc1.Author)
	k2 := fmt.Sprintf("%d|%s|%s", doc2.VolumeNumber, doc2.PageRange, doc2.Author)
	if k2 < k1 {
		k1, k2 = k2, k1
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(k1+"\n"+k2)).String()
}

// matchFragments pairs sentences across the two texts. Each sentence
// from text1 claims at most one sentence from text2: the best-scoring
// unclaimed one above the fragment threshold.
func (e *Engine) matchFragments(text1, text2 string) []model.MatchedFragment {
	sentences1 := e.eligibleSentences(text1)
	sentences2 := e.eligibleSentences(text2)
	if len(sentences1) == 0 || len(sentences2) == 0 {
		return nil
	}

	norm2 := make([]string, len(sentences2))
	for i, s := range sentences2 {
		norm2[i] = Normalize(s.text)
	}

	var fragments []model.MatchedFragment
	claimed := make([]bool, len(sentences2))

	for _, s1 := range sentences1 {
		n1 := Normalize(s1.text)
		bestIdx, bestScore := -1, fragmentSimilarityThreshold
		for j := range sentences2 {
			if claimed[j] {
				continue
			}
			if score := normalizedSimilarity(n1, norm2[j]); score > bestScore {
				bestIdx, bestScore = j, score
			}
		}
		if bestIdx >= 0 {
			claimed[bestIdx] = true
			fragments = append(fragments, model.MatchedFragment{
				Text:      s1.text,
				Position1: s1.offset,
				Position2: sentences2[bestIdx].offset,
			})
		}
	}
	return fragments
}

// eligibleSentences splits text and drops sentences shorter than the
// minimum match length or consisting of boilerplate.
func (e *Engine) eligibleSentences(text string) []sentenceSpan {
	spans := splitSentences(text)
	out := spans[:0]
	for _, s := range spans {
		if len([]rune(s.text)) < e.minMatchLength {
			continue
		}
		if e.isBoilerplate(s.text) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (e *Engine) isBoilerplate(sentence string) bool {
	n := Normalize(sentence)
	for _, phrase := range e.stripPhrases {
		if n == Normalize(phrase) {
			return true
		}
	}
	return false
}

// classify fills the verdict fields. The three conditions are OR-ed,
// so raising any threshold never turns a non-suspicious pair
// suspicious.
func (e *Engine) classify(c *model.Comparison) {
	var reasons []string

	if c.TextSimilarity >= e.textThreshold {
		reasons = append(reasons, fmt.Sprintf("high textual overlap: %.2f%%", c.TextSimilarity))
	}
	if c.VisualSimilarity != nil && *c.VisualSimilarity >= e.visualThreshold {
		reasons = append(reasons, fmt.Sprintf("high visual similarity: %.2f%%", *c.VisualSimilarity))
	}
	if len(c.MatchedFragments) >= suspiciousFragmentCount {
		reasons = append(reasons, fmt.Sprintf("%d matching text fragments", len(c.MatchedFragments)))
	}

	if len(reasons) == 0 {
		c.HumanReview = "routine check: no significant overlap detected"
		return
	}

	c.IsSuspicious = true
	c.SuspiciousReason = strings.Join(reasons, "; ")

	switch {
	case c.TextSimilarity >= criticalSimilarity:
		c.HumanReview = "critical: documents are near-identical; likely direct copying"
	case c.TextSimilarity >= highSimilarity:
		c.HumanReview = "high similarity; verify the documents were produced independently"
	case len(c.MatchedFragments) >= systematicFragmentCount:
		c.HumanReview = "systematic sentence-level copying; review the matched fragments"
	default:
		c.HumanReview = "manual review recommended"
	}
}
