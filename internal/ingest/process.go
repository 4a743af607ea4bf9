package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/caseforge/casescan/internal/imagemeta"
	"github.com/caseforge/casescan/internal/model"
	"github.com/caseforge/casescan/internal/ocr"
)

// Fraction bands within one volume's progress stream.
const (
	fractionScanning = 0.05
	fractionPages    = 0.95

	// analyzeEvery samples pages for multimodal analysis.
	analyzeEvery = 10

	// fingerprintSamplePages bounds the EXIF sweep over page images.
	fingerprintSamplePages = 5
)

// PageSink receives pages in page order as they are produced. A sink
// error aborts the volume with a PhaseError event.
type PageSink func(page *model.Page) error

// Process extracts all pages of the volume and streams progress.
//
// The returned channel is closed when processing ends, successfully or
// not. Cancelling ctx stops production: workers wind down, OCR handles
// are released, the stream ends without a completed event, and the
// volume is left at whatever phase it reached. There is no page-level
// checkpointing; a rerun starts the volume over (hitting the text
// cache for pages already extracted).
func (ing *Ingestor) Process(ctx context.Context, volume *model.Volume, sink PageSink) <-chan model.Progress {
	out := make(chan model.Progress, 8)
	go func() {
		defer close(out)
		ing.run(ctx, volume, sink, out)
	}()
	return out
}

// pageResult pairs a page number with its extraction outcome.
type pageResult struct {
	number int
	ep     extractedPage
}

func (ing *Ingestor) run(ctx context.Context, volume *model.Volume, sink PageSink, out chan<- model.Progress) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

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
		Phase:            model.PhaseScanning,
		FractionComplete: 0,
		CurrentVolume:    volume.VolumeNumber,
		Message:          fmt.Sprintf("scanning %s", volume.FilePath),
	}) {
		return
	}

	total := volume.TotalPages
	if total == 0 {
		emit(model.Progress{
			Phase:            model.PhaseCompleted,
			FractionComplete: 1,
			CurrentVolume:    volume.VolumeNumber,
			Message:          "volume has no pages",
		})
		return
	}

	useOCR := ing.cfg.UseOCR && ing.factory != nil
	language := ing.cfg.OCRLanguage
	if useOCR {
		language = ing.ocrLanguage(ctx, volume.FilePath, total)
	}

	if !emit(model.Progress{
		Phase:            model.PhaseScanning,
		FractionComplete: fractionScanning,
		CurrentVolume:    volume.VolumeNumber,
		Message:          fmt.Sprintf("%d pages, ocr language %s", total, language),
	}) {
		return
	}

	results := ing.startWorkers(ctx, volume.FilePath, total, useOCR, language)

	// Sequencer: workers finish out of order, pages are sunk and
	// reported strictly in page order.
	pending := make(map[int]extractedPage)
	imagePaths := make([]string, 0, fingerprintSamplePages)
	next := 1

	for r := range results {
		pending[r.number] = r.ep
		for {
			ep, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)

			page := &model.Page{
				VolumeNumber:  volume.VolumeNumber,
				PageNumber:    next,
				Text:          ep.text,
				ImagePath:     ep.imagePath,
				OCRConfidence: ep.confidence,
			}
			if sink != nil {
				if err := sink(page); err != nil {
					emit(model.Progress{
						Phase:         model.PhaseError,
						CurrentVolume: volume.VolumeNumber,
						CurrentPage:   next,
						Message:       fmt.Sprintf("failed to store page %d: %v", next, err),
					})
					return
				}
			}
			if ep.imagePath != "" && len(imagePaths) < fingerprintSamplePages {
				imagePaths = append(imagePaths, ep.imagePath)
			}

			fraction := fractionScanning + (fractionPages-fractionScanning)*float64(next)/float64(total)
			if !emit(model.Progress{
				Phase:            model.PhaseOCR,
				FractionComplete: fraction,
				CurrentVolume:    volume.VolumeNumber,
				CurrentPage:      next,
			}) {
				return
			}

			if ing.analyzer != nil && ing.cfg.UseMultimodal && next%analyzeEvery == 0 && ep.imagePath != "" {
				if !ing.analyzePage(ctx, emit, volume.VolumeNumber, next, ep.imagePath, fraction) {
					return
				}
			}
			next++
		}
	}
	if ctx.Err() != nil {
		return
	}

	if volume.DocumentType == model.DocumentTypeScanned {
		ing.fingerprint(volume, imagePaths)
	}

	emit(model.Progress{
		Phase:            model.PhaseCompleted,
		FractionComplete: 1,
		CurrentVolume:    volume.VolumeNumber,
		Message:          fmt.Sprintf("indexed %d pages", total),
	})
}

// startWorkers feeds page numbers to a bounded pool. Each worker owns
// its own OCR session: a single engine handle must never be shared.
func (ing *Ingestor) startWorkers(ctx context.Context, path string, total int, useOCR bool, language string) <-chan pageResult {
	workers := ing.cfg.OCRWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	jobs := make(chan int)
	results := make(chan pageResult, workers)

	go func() {
		defer close(jobs)
		for page := 1; page <= total; page++ {
			select {
			case jobs <- page:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var session *ocr.Session
			if useOCR {
				session = ocr.NewSession(ing.factory, ing.logger)
				defer func() {
					if err := session.Close(); err != nil {
						ing.logger.Warn("failed to close ocr session", slog.String("error", err.Error()))
					}
				}()
			}

			for page := range jobs {
				r := pageResult{number: page, ep: ing.ExtractPageText(ctx, session, path, page, language)}
				select {
				case results <- r:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

// analyzePage runs the sampled multimodal analysis for one page.
// Returns false when the stream consumer went away.
func (ing *Ingestor) analyzePage(ctx context.Context, emit func(model.Progress) bool, volume, page int, imagePath string, fraction float64) bool {
	if !emit(model.Progress{
		Phase:            model.PhaseAnalyzing,
		FractionComplete: fraction,
		CurrentVolume:    volume,
		CurrentPage:      page,
		Message:          "multimodal page analysis",
	}) {
		return false
	}

	detections, err := ing.analyzer.Analyze(ctx, imagePath)
	if err != nil {
		ing.logger.WarnContext(ctx, "page analysis failed",
			slog.Int("volume", volume),
			slog.Int("page", page),
			slog.String("error", err.Error()))
		return true
	}
	for _, d := range detections {
		ing.logger.InfoContext(ctx, "page detection",
			slog.Int("volume", volume),
			slog.Int("page", page),
			slog.String("kind", d.Kind),
			slog.Float64("confidence", d.Confidence))
	}
	return true
}

// fingerprint sweeps sampled page images for EXIF scanner metadata and
// records the first fingerprint found on the volume.
func (ing *Ingestor) fingerprint(volume *model.Volume, imagePaths []string) {
	for _, path := range imagePaths {
		fp, err := imagemeta.FromFile(path)
		if err != nil || fp == nil {
			continue
		}
		volume.Metadata.Scanner = fp
		ing.logger.Info("scanner fingerprint found",
			slog.Int("volume", volume.VolumeNumber),
			slog.String("make", fp.Make),
			slog.String("model", fp.Model))
		return
	}
}
