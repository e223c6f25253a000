package actiongraph

import (
	"context"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports"
	"go.trai.ch/cairn/internal/engine/rulekeys"
	"go.trai.ch/zerr"
)

// MismatchReport compares two action graphs rule by rule using content-agnostic keys.
type MismatchReport struct {
	InCommon   int
	Differing  []string
	OnlyCached []string
	OnlyFresh  []string
}

// Empty reports whether both graphs hold the same rules with the same keys.
func (r MismatchReport) Empty() bool {
	return len(r.Differing) == 0 && len(r.OnlyCached) == 0 && len(r.OnlyFresh) == 0
}

func (r MismatchReport) String() string {
	return fmt.Sprintf("in common: %d, differing: [%s], only in cached: [%s], only in fresh: [%s]",
		r.InCommon,
		strings.Join(r.Differing, " "),
		strings.Join(r.OnlyCached, " "),
		strings.Join(r.OnlyFresh, " "))
}

// Compare keys every rule of both graphs with the content-agnostic factory.
func Compare(
	cached, fresh *domain.ActionGraph,
	paths domain.SourcePathResolver,
	logger ports.Logger,
) (MismatchReport, error) {
	cachedKeys, err := rulekeys.NewContentAgnosticFactory(paths, cached, logger).BuildAll(cached.Rules())
	if err != nil {
		return MismatchReport{}, zerr.Wrap(err, "failed to key cached action graph")
	}
	freshKeys, err := rulekeys.NewContentAgnosticFactory(paths, fresh, logger).BuildAll(fresh.Rules())
	if err != nil {
		return MismatchReport{}, zerr.Wrap(err, "failed to key fresh action graph")
	}

	var report MismatchReport
	for rule := range cached.Rules() {
		target := rule.Target()
		freshKey, ok := freshKeys[target]
		switch {
		case !ok:
			report.OnlyCached = append(report.OnlyCached, target.String())
		case freshKey.Equal(cachedKeys[target]):
			report.InCommon++
		default:
			report.Differing = append(report.Differing, target.String())
		}
	}
	for rule := range fresh.Rules() {
		if _, ok := cachedKeys[rule.Target()]; !ok {
			report.OnlyFresh = append(report.OnlyFresh, rule.Target().String())
		}
	}
	return report, nil
}

// check rebuilds the graph and fails if the cached one no longer matches it.
func (c *Cache) check(ctx context.Context, targetGraph *domain.TargetGraph, cached *domain.ActionGraph, opts Options) error {
	fresh, err := c.build(ctx, targetGraph, opts)
	if err != nil {
		return err
	}
	report, err := Compare(cached, fresh, c.paths, c.logger)
	if err != nil {
		return err
	}
	if report.Empty() {
		return nil
	}
	c.logger.Debug("action graph mismatch", "report", spew.Sdump(report))
	return zerr.With(zerr.Wrap(domain.ErrActionGraphMismatch, "action graph cache is corrupt"), "report", report.String())
}
