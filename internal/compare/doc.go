// Package compare implements the document-comparison engine: it scores
// textual similarity of two attributed document spans, finds matching
// sentence-level fragments, optionally adds visual similarity through
// an external capability, and classifies suspicious copying.
//
// The engine is a pure function of its two inputs. It holds no mutable
// state, so comparison pairs (including the bulk cross-author sweep)
// are computed by parallel workers with a bounded concurrency limit.
package compare
