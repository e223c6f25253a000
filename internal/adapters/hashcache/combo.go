package hashcache

import (
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ Engine = (*ComboEngine)(nil)

// ComboEngine queries two engines in parallel and reports any disagreement.
// The primary engine's answer is always the one returned.
type ComboEngine struct {
	primary   Engine
	secondary Engine
	logger    ports.Logger
}

// NewComboEngine creates an engine comparing primary against secondary.
func NewComboEngine(primary, secondary Engine, logger ports.Logger) *ComboEngine {
	return &ComboEngine{primary: primary, secondary: secondary, logger: logger}
}

// Get loads from both engines and compares the results.
func (e *ComboEngine) Get(p string) (domain.HashCodeAndFileType, error) {
	var primary, secondary domain.HashCodeAndFileType
	var secondaryErr error
	var g errgroup.Group
	g.Go(func() error {
		var err error
		primary, err = e.primary.Get(p)
		return err
	})
	g.Go(func() error {
		secondary, secondaryErr = e.secondary.Get(p)
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.HashCodeAndFileType{}, err
	}

	switch {
	case secondaryErr != nil:
		e.logger.Warn("hash cache engines disagree", "path", p, "error", secondaryErr.Error())
	case !primary.Equal(secondary):
		e.logger.Warn("hash cache engines disagree",
			"path", p, "primary", primary.Hash.String(), "secondary", secondary.Hash.String())
	}
	return primary, nil
}

// GetIfPresent consults the primary engine only.
func (e *ComboEngine) GetIfPresent(p string) (domain.HashCodeAndFileType, bool) {
	return e.primary.GetIfPresent(p)
}

// GetSize loads from both engines and compares the results.
func (e *ComboEngine) GetSize(p string) (int64, error) {
	var primary, secondary int64
	var secondaryErr error
	var g errgroup.Group
	g.Go(func() error {
		var err error
		primary, err = e.primary.GetSize(p)
		return err
	})
	g.Go(func() error {
		secondary, secondaryErr = e.secondary.GetSize(p)
		return nil
	})
	if err := g.Wait(); err != nil {
		return 0, zerr.With(err, "path", p)
	}
	if secondaryErr == nil && primary != secondary {
		e.logger.Warn("hash cache engines disagree on size", "path", p, "primary", primary, "secondary", secondary)
	}
	return primary, nil
}

// Put writes to both engines.
func (e *ComboEngine) Put(p string, value domain.HashCodeAndFileType) {
	e.primary.Put(p, value)
	e.secondary.Put(p, value)
}

// Invalidate invalidates both engines.
func (e *ComboEngine) Invalidate(p string) {
	e.primary.Invalidate(p)
	e.secondary.Invalidate(p)
}

// InvalidateAll invalidates both engines.
func (e *ComboEngine) InvalidateAll() {
	e.primary.InvalidateAll()
	e.secondary.InvalidateAll()
}

// Entries returns the primary engine's records.
func (e *ComboEngine) Entries() map[string]domain.HashCodeAndFileType {
	return e.primary.Entries()
}
