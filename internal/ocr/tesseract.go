package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultTesseractBinary is the tesseract executable looked up on PATH.
const DefaultTesseractBinary = "tesseract"

// Runner executes external commands. Extracted as an interface so
// tests can stub the tesseract binary.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// tesseractHandle is a Handle backed by the tesseract CLI.
//
// The CLI spawns a process per call, so the "handle" holds only
// configuration; Close is trivial. The Handle/Session shape still
// applies because library-backed engines (and the vision comparator)
// hold real native resources.
type tesseractHandle struct {
	binary   string
	language string
	timeout  time.Duration
	runner   Runner
}

// TesseractFactory returns a Factory producing tesseract-CLI handles.
// If binary is empty, DefaultTesseractBinary is used. timeout bounds a
// single page recognition; zero means no per-page bound beyond the
// caller's context.
func TesseractFactory(binary string, timeout time.Duration, runner Runner) Factory {
	if binary == "" {
		binary = DefaultTesseractBinary
	}
	if runner == nil {
		runner = execRunner{}
	}
	return func(language string) (Handle, error) {
		if _, err := exec.LookPath(binary); err != nil {
			return nil, fmt.Errorf("tesseract binary not found: %w", err)
		}
		return &tesseractHandle{
			binary:   binary,
			language: language,
			timeout:  timeout,
			runner:   runner,
		}, nil
	}
}

// Recognize runs tesseract twice: once for plain text and once in TSV
// mode for per-word confidences. The result confidence is the mean
// word confidence on tesseract's native 0-100 scale.
func (h *tesseractHandle) Recognize(ctx context.Context, imagePath string) (Result, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	out, stderr, err := h.runner.Run(ctx, h.binary, imagePath, "stdout", "-l", h.language)
	if err != nil {
		return Result{}, fmt.Errorf("tesseract failed: %w (stderr: %s)", err, firstLine(stderr))
	}
	text := string(out)

	tsv, _, err := h.runner.Run(ctx, h.binary, imagePath, "stdout", "-l", h.language, "tsv")
	if err != nil {
		// Text succeeded; confidence is best-effort. Report the scale
		// midpoint rather than claiming certainty we do not have.
		return Result{Text: text, Confidence: 50}, nil
	}

	return Result{Text: text, Confidence: meanWordConfidence(tsv)}, nil
}

// Close releases the handle. Nothing to release for the CLI engine.
func (h *tesseractHandle) Close() error {
	return nil
}

// meanWordConfidence averages the conf column of tesseract TSV output
// over word rows. Non-word rows carry conf -1 and are skipped.
// Returns 0 when no word rows exist (blank page).
func meanWordConfidence(tsv []byte) float64 {
	var (
		sum   float64
		words int
	)
	for line := range strings.Lines(string(tsv)) {
		fields := strings.Split(strings.TrimRight(line, "\n"), "\t")
		// TSV columns: level page block par line word left top width height conf text
		if len(fields) < 12 {
			continue
		}
		conf, err := strconv.ParseFloat(fields[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		if strings.TrimSpace(fields[11]) == "" {
			continue
		}
		sum += conf
		words++
	}
	if words == 0 {
		return 0
	}
	return sum / float64(words)
}

// firstLine returns the first line of b for compact error messages.
func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
