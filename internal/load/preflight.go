package load

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/tempinfer/internal/config"
	"github.com/gyeh/tempinfer/internal/convert"
	"github.com/gyeh/tempinfer/internal/infer"
	"github.com/gyeh/tempinfer/internal/model"
	"github.com/gyeh/tempinfer/internal/normalize"
	"github.com/gyeh/tempinfer/internal/source"
	"github.com/gyeh/tempinfer/internal/temporal"
)

// ErrNoFamily is returned when no sampled value matches any pattern family.
var ErrNoFamily = errors.New("no pattern family matched the sampled values")

// PreflightResult holds all context resolved during the preflight phase.
type PreflightResult struct {
	// FilePath is the original path passed to Preflight, stored as-is.
	FilePath string
	// FileSHA256 is the hex-encoded SHA-256 digest of the file.
	FileSHA256 string
	FileSize   int64
	// RunID identifies this load. When AlreadyLoaded is set it is the earlier
	// completed run instead.
	RunID uuid.UUID
	// Raw is the source column. Release frees it.
	Raw     *arrow.Chunked
	Catalog *temporal.Catalog
	Family  temporal.Family
	// Vote is the sample vote; zero when the family was forced.
	Vote   infer.Result
	Forced bool
	// AlreadyLoaded is true when a completed run of the same file column
	// exists and force mode is off.
	AlreadyLoaded bool
	Duration      time.Duration
}

// Release frees the source column.
func (p *PreflightResult) Release() {
	if p.Raw != nil {
		p.Raw.Release()
		p.Raw = nil
	}
}

// Preflight hashes the file, reads and votes on the column, and registers the
// run with the sink.
func Preflight(ctx context.Context, sink Sink, log zerolog.Logger, cfg *config.Config) (*PreflightResult, error) {
	pf, err := Inspect(log, cfg)
	if err != nil {
		return nil, err
	}

	if err := sink.EnsureTable(ctx); err != nil {
		pf.Release()
		return nil, fmt.Errorf("preflight ensure table: %w", err)
	}

	prevID, status, found, err := sink.LookupRun(ctx, pf.FileSHA256, cfg.Column)
	if err != nil {
		pf.Release()
		return nil, fmt.Errorf("preflight lookup run: %w", err)
	}
	if found && status == model.RunComplete && !cfg.Force {
		pf.RunID = prevID
		pf.AlreadyLoaded = true
		return pf, nil
	}

	pf.RunID = uuid.New()
	err = sink.RegisterRun(ctx, model.Run{
		RunID:          pf.RunID,
		SourceFileName: filepath.Base(pf.FilePath),
		SourceSHA256:   pf.FileSHA256,
		Column:         cfg.Column,
		Family:         pf.Family.String(),
		Table:          sink.Table(),
	})
	if err != nil {
		pf.Release()
		return nil, fmt.Errorf("preflight register run: %w", err)
	}
	return pf, nil
}

// Inspect is the read-only part of preflight: hash, read the column, and pick
// the family. It never touches a database.
func Inspect(log zerolog.Logger, cfg *config.Config) (*PreflightResult, error) {
	start := time.Now()

	sha, size, err := normalize.FileDigest(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("preflight hash: %w", err)
	}

	cat, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("preflight catalog: %w", err)
	}

	raw, err := source.ReadColumn(cfg.FilePath, cfg.Column, nil)
	if err != nil {
		return nil, fmt.Errorf("preflight read: %w", err)
	}

	pf := &PreflightResult{
		FilePath:   cfg.FilePath,
		FileSHA256: sha,
		FileSize:   size,
		Raw:        raw,
		Catalog:    cat,
	}

	forced, ok, err := cfg.ForcedFamily()
	if err != nil {
		pf.Release()
		return nil, fmt.Errorf("preflight family: %w", err)
	}
	if ok {
		pf.Family, pf.Forced = forced, true
	} else {
		vote, err := convert.Infer(cat, raw, cfg.NullTokens(), cfg.SampleSize)
		if err != nil {
			pf.Release()
			return nil, fmt.Errorf("preflight vote: %w", err)
		}
		if !vote.Found {
			pf.Release()
			return nil, errors.Wrapf(ErrNoFamily, "%d values sampled from column %q", vote.Sampled, cfg.Column)
		}
		pf.Family, pf.Vote = vote.Family, vote
	}
	pf.Duration = time.Since(start)

	log.Info().
		Str("file", filepath.Base(cfg.FilePath)).
		Str("sha256", sha).
		Int("rows", raw.Len()).
		Str("family", pf.Family.String()).
		Bool("forced", pf.Forced).
		Int("sampled", pf.Vote.Sampled).
		Dur("duration", pf.Duration).
		Msg("preflight complete")

	return pf, nil
}
