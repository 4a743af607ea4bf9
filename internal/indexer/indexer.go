// Package indexer orchestrates incremental indexing of a case
// directory: PDF discovery, per-volume ingestion with failure
// isolation, and the cross-author suspicious-pair sweep, reported over
// one cancellable progress stream.
package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/caseforge/casescan/internal/compare"
	"github.com/caseforge/casescan/internal/config"
	"github.com/caseforge/casescan/internal/database"
	"github.com/caseforge/casescan/internal/extract"
	"github.com/caseforge/casescan/internal/ingest"
	"github.com/caseforge/casescan/internal/model"
)

// Progress bands of a full indexing run. Scanning gets the first
// tenth, volumes share the middle proportionally, the sweep gets the
// last tenth.
const (
	bandScanningEnd = 0.1
	bandVolumesEnd  = 0.9
)

// Indexer runs incremental indexing over a case directory.
type Indexer struct {
	cfg    *config.Config
	logger *slog.Logger

	db        *database.CaseDB
	ingestor  *ingest.Ingestor
	extractor *extract.Extractor
	engine    *compare.Engine
}

// New creates an Indexer over the given collaborators.
func New(cfg *config.Config, logger *slog.Logger, db *database.CaseDB, ingestor *ingest.Ingestor, extractor *extract.Extractor, engine *compare.Engine) *Indexer {
	return &Indexer{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		ingestor:  ingestor,
		extractor: extractor,
		engine:    engine,
	}
}

// Update brings the index up to date with the case directory and runs
// the suspicious-pair sweep. Volumes already completed are skipped;
// one volume failing marks it with the error status and never stops
// the run. Cancelling ctx ends the stream early and leaves every
// volume at the status it reached.
func (ix *Indexer) Update(ctx context.Context) <-chan model.Progress {
	out := make(chan model.Progress, 8)
	go func() {
		defer close(out)
		ix.run(ctx, out)
	}()
	return out
}

func (ix *Indexer) run(ctx context.Context, out chan<- model.Progress) {
	emit := func(p model.Progress) bool {
		if ctx.Err() != nil {
			return false
		}
		select {
		case out <- p:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !emit(model.Progress{
		Phase:   model.PhaseScanning,
		Message: fmt.Sprintf("scanning %s", ix.cfg.CaseDir),
	}) {
		return
	}

	files, err := discoverPDFs(ix.cfg.CaseDir)
	if err != nil {
		emit(model.Progress{Phase: model.PhaseError, Message: fmt.Sprintf("directory scan failed: %v", err)})
		return
	}
	if !emit(model.Progress{
		Phase:            model.PhaseScanning,
		FractionComplete: bandScanningEnd,
		Message:          fmt.Sprintf("found %d volumes", len(files)),
	}) {
		return
	}

	for i, path := range files {
		base := bandScanningEnd
		width := 0.0
		if len(files) > 0 {
			width = (bandVolumesEnd - bandScanningEnd) / float64(len(files))
			base += width * float64(i)
		}

		if ok, err := ix.processVolume(ctx, path, base, width, emit); err != nil {
			ix.logger.WarnContext(ctx, "volume failed, continuing",
				slog.String("path", path),
				slog.String("error", err.Error()))
		} else if !ok {
			return // Consumer went away.
		}
	}
	if ctx.Err() != nil {
		return
	}

	if !ix.sweep(ctx, emit) {
		return
	}

	emit(model.Progress{
		Phase:            model.PhaseCompleted,
		FractionComplete: 1,
		Message:          "index up to date",
	})
}

// processVolume indexes one volume. The bool result reports whether
// the consumer is still listening; the error reports a volume-level
// failure already recorded in the store.
func (ix *Indexer) processVolume(ctx context.Context, path string, base, width float64, emit func(model.Progress) bool) (bool, error) {
	existing, err := ix.db.GetVolume(ctx, path)
	if err != nil {
		return true, err
	}
	if existing != nil && existing.Completed() {
		return emit(model.Progress{
			Phase:            model.PhaseScanning,
			FractionComplete: base + width,
			CurrentVolume:    existing.VolumeNumber,
			Message:          fmt.Sprintf("volume %d already indexed", existing.VolumeNumber),
		}), nil
	}

	volume, err := ix.ingestor.Metadata(ctx, path)
	if err != nil {
		failed := model.NewVolume(path)
		failed.VolumeNumber = ingest.InferVolumeNumber(path)
		failed.IndexingStatus = model.IndexingStatusError
		if _, dbErr := ix.db.UpsertVolume(ctx, failed); dbErr != nil {
			ix.logger.Warn("failed to record volume error", slog.String("error", dbErr.Error()))
		}
		return true, fmt.Errorf("failed to read volume metadata: %w", err)
	}

	volume.IndexingStatus = model.IndexingStatusProcessing
	volumeID, err := ix.db.UpsertVolume(ctx, volume)
	if err != nil {
		return true, err
	}

	sink := func(page *model.Page) error {
		ix.decorate(volume, page)
		return ix.db.SavePage(ctx, volumeID, page)
	}

	var failed bool
	for ev := range ix.ingestor.Process(ctx, volume, sink) {
		if ev.Phase == model.PhaseError {
			failed = true
		}

		volume.IndexingProgress = ev.FractionComplete * 100
		if err := ix.db.UpdateVolumeStatus(ctx, path, model.IndexingStatusProcessing, volume.IndexingProgress); err != nil {
			ix.logger.Warn("failed to update volume progress", slog.String("error", err.Error()))
		}

		ev.FractionComplete = base + width*ev.FractionComplete
		if ev.CurrentVolume == 0 {
			ev.CurrentVolume = volume.VolumeNumber
		}
		if !emit(ev) {
			return false, nil
		}
	}
	if ctx.Err() != nil {
		return false, nil
	}

	if failed {
		if err := ix.db.UpdateVolumeStatus(ctx, path, model.IndexingStatusError, volume.IndexingProgress); err != nil {
			return true, err
		}
		return true, fmt.Errorf("volume %d aborted during ingestion", volume.VolumeNumber)
	}

	volume.IndexingStatus = model.IndexingStatusCompleted
	volume.IndexingProgress = 100
	if _, err := ix.db.UpsertVolume(ctx, volume); err != nil {
		return true, err
	}
	return true, nil
}

// decorate attaches derived fields and external attribution to a page
// before it is persisted.
func (ix *Indexer) decorate(volume *model.Volume, page *model.Page) {
	if page.Text != "" {
		fields := ix.extractor.Extract(page.Text)
		page.Metadata.DocumentType = fields.DocumentType
		page.Metadata.Date = fields.DecisionDate
	}
	page.Metadata.Author = ix.cfg.CaseFile.RoleFor(volume.VolumeNumber, page.PageNumber)
}

// sweep runs the cross-author comparison over all indexed pages and
// persists suspicious pairs. Without attribution rules the sweep is
// meaningless and is skipped with a warning: casescan refuses to guess
// who authored a page.
func (ix *Indexer) sweep(ctx context.Context, emit func(model.Progress) bool) bool {
	if !ix.cfg.CaseFile.HasAttribution() {
		ix.logger.WarnContext(ctx, "no attribution rules configured, skipping suspicious-pair sweep")
		return true
	}

	if !emit(model.Progress{
		Phase:            model.PhaseAnalyzing,
		FractionComplete: bandVolumesEnd,
		Message:          "comparing attributed documents",
	}) {
		return false
	}

	pages, err := ix.db.AllPages(ctx)
	if err != nil {
		emit(model.Progress{Phase: model.PhaseError, Message: fmt.Sprintf("failed to load pages: %v", err)})
		return false
	}

	docs := compare.BuildDocuments(pages, ix.cfg.CaseFile.RoleFor)
	suspicious, err := ix.engine.Sweep(ctx, docs)
	if err != nil {
		emit(model.Progress{Phase: model.PhaseError, Message: fmt.Sprintf("comparison sweep failed: %v", err)})
		return false
	}

	for _, c := range suspicious {
		if err := ix.db.SaveComparison(ctx, c); err != nil {
			emit(model.Progress{Phase: model.PhaseError, Message: fmt.Sprintf("failed to save comparison: %v", err)})
			return false
		}
	}

	return emit(model.Progress{
		Phase:            model.PhaseAnalyzing,
		FractionComplete: bandVolumesEnd + 0.09,
		Message:          fmt.Sprintf("%d suspicious pairs", len(suspicious)),
	})
}

// discoverPDFs walks the case directory for PDF files, matching the
// extension case-insensitively. Archives burn scans to disc with
// uppercase names.
func discoverPDFs(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk case directory: %w", err)
	}
	sort.Strings(files)
	return files, nil
}
