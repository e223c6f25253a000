package app

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports"
	"go.trai.ch/cairn/internal/engine/actiongraph"
	"go.trai.ch/cairn/internal/engine/rulekeys"
	"go.trai.ch/zerr"
)

// Session serves one project. Its caches live as long as the session, so repeated calls only
// rehash what changed. A Session is not safe for concurrent use.
type Session struct {
	app     *App
	project *domain.Project
	paths   domain.SourcePathResolver
	hasher  ports.ContentHasher
	hashes  ports.FileHashCache
	records ports.BuildRecordStore
	graphs  *actiongraph.Cache
}

// Settings returns the settings the session was opened with.
func (s *Session) Settings() domain.Settings {
	return s.project.Settings
}

// ActionGraph returns the action graph of the current target graph.
func (s *Session) ActionGraph(ctx context.Context) (*domain.ActionGraph, error) {
	return s.graphs.GetActionGraph(ctx, s.project.Graph, actiongraph.OptionsFromSettings(s.project.Settings))
}

// KeyStatus classifies a rule key against the last recorded build of the rule.
type KeyStatus string

const (
	// StatusMiss means the rule has to be rebuilt.
	StatusMiss KeyStatus = "miss"
	// StatusHit means the default rule key matches the recorded one.
	StatusHit KeyStatus = "hit"
	// StatusDepFileHit means only the inputs the last execution read are unchanged.
	StatusDepFileHit KeyStatus = "dep_file_hit"
	// StatusUncacheable means the rule could not be keyed, usually because an input is missing.
	StatusUncacheable KeyStatus = "uncacheable"
)

// KeyReport is the outcome of keying one rule.
type KeyReport struct {
	Target domain.BuildTarget
	Status KeyStatus
	Key    domain.RuleKey
	// DepFileKey is set when the rule has a usable dependency file.
	DepFileKey domain.RuleKey
	// Err is why an uncacheable rule could not be keyed.
	Err error
}

// KeysOptions controls Keys.
type KeysOptions struct {
	// Explain records the fields folded into every requested key.
	Explain bool
}

// Keys computes the rule keys of targets, or of every rule when targets is empty, and compares
// them with the recorded builds.
func (s *Session) Keys(ctx context.Context, targets []string, opts KeysOptions) ([]KeyReport, error) {
	ctx, span := s.app.tracer.Start(ctx, "app.keys", ports.WithAttribute("targets", len(targets)))
	defer span.End()

	graph, err := s.ActionGraph(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	selected, err := selectRules(graph, targets)
	if err != nil {
		return nil, err
	}

	seed := rulekeys.WithSeed(s.project.Settings.RuleKeySeed)
	keys := rulekeys.NewDefaultFactory(s.hashes, s.paths, graph, s.app.logger, seed, rulekeys.WithTrace(opts.Explain))
	depFiles := rulekeys.NewDependencyFileFactory(s.hashes, s.paths, s.app.logger, seed)

	reports := make([]KeyReport, 0, len(selected))
	for rule, res := range keys.Each(slices.Values(selected)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vertex := s.app.progress.Vertex(rule.Target().String())
		report, err := s.classify(rule, res, depFiles)
		if err != nil {
			vertex.Done(err)
			span.RecordError(err)
			return nil, err
		}
		switch report.Status {
		case StatusHit, StatusDepFileHit:
			vertex.Cached()
		case StatusUncacheable:
			s.app.logger.Warn("rule is uncacheable", "target", report.Target.String(), "reason", report.Err.Error())
		case StatusMiss:
		}
		vertex.Done(nil)
		reports = append(reports, report)
	}
	span.SetAttribute("rules", len(reports))
	return reports, nil
}

func selectRules(graph *domain.ActionGraph, targets []string) ([]domain.BuildRule, error) {
	if len(targets) == 0 {
		return slices.Collect(graph.Rules()), nil
	}
	rules := make([]domain.BuildRule, 0, len(targets))
	for _, name := range targets {
		target, err := domain.ParseBuildTarget(name)
		if err != nil {
			return nil, err
		}
		rule, err := graph.Rule(target)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (s *Session) classify(
	rule domain.BuildRule,
	res rulekeys.Result,
	depFiles *rulekeys.DependencyFileFactory,
) (KeyReport, error) {
	report := KeyReport{Target: rule.Target(), Key: res.Key}
	if res.Err != nil {
		if !errors.Is(res.Err, domain.ErrNotFound) {
			return report, res.Err
		}
		report.Status, report.Err = StatusUncacheable, res.Err
		return report, nil
	}

	report.Status = StatusMiss
	record, err := s.records.Get(rule.Target().String())
	switch {
	case errors.Is(err, domain.ErrBuildRecordNotFound):
		return report, nil
	case err != nil:
		return report, err
	}
	if record.RuleKey == res.Key.Hash {
		report.Status = StatusHit
		return report, nil
	}

	depKey, ok, err := s.depFileKey(rule, record, depFiles)
	if err != nil || !ok {
		return report, err
	}
	report.DepFileKey = depKey
	if depKey.Hash == record.DepFileKey {
		report.Status = StatusDepFileHit
	}
	return report, nil
}

// depFileKey recomputes a rule's dependency file key from the recorded entries. It reports false
// when the rule has no usable dependency file or the covered inputs changed shape.
func (s *Session) depFileKey(
	rule domain.BuildRule,
	record *domain.BuildRecord,
	depFiles *rulekeys.DependencyFileFactory,
) (domain.RuleKey, bool, error) {
	supported, ok := rule.(domain.SupportsDependencyFileRuleKey)
	if !ok || !supported.UseDependencyFileRuleKeys() || !record.HasDepFile() {
		return domain.RuleKey{}, false, nil
	}

	manifest, err := depFiles.BuildManifestKey(supported)
	if err != nil {
		return domain.RuleKey{}, false, err
	}
	if manifest.Key.Hash != record.ManifestKey {
		return domain.RuleKey{}, false, nil
	}

	key, err := depFiles.Build(supported, record.DepFile)
	switch {
	case errors.Is(err, domain.ErrDepFileInputNotFound):
		s.app.logger.Warn("dependency file no longer matches the rule, falling back to the default rule key",
			"target", rule.Target().String())
		return domain.RuleKey{}, false, nil
	case err != nil:
		return domain.RuleKey{}, false, err
	}
	return key.Key, true, nil
}

// RecordDepFile stores the keys of target together with the inputs its last execution read, the
// way the execution engine does after a build.
func (s *Session) RecordDepFile(
	ctx context.Context,
	target string,
	entries []domain.DependencyFileEntry,
) (domain.BuildRecord, error) {
	graph, err := s.ActionGraph(ctx)
	if err != nil {
		return domain.BuildRecord{}, err
	}
	rules, err := selectRules(graph, []string{target})
	if err != nil {
		return domain.BuildRecord{}, err
	}
	rule := rules[0]

	seed := rulekeys.WithSeed(s.project.Settings.RuleKeySeed)
	key, err := rulekeys.NewDefaultFactory(s.hashes, s.paths, graph, s.app.logger, seed).Build(rule)
	if err != nil {
		return domain.BuildRecord{}, err
	}

	entries = slices.Clone(entries)
	slices.SortFunc(entries, domain.CompareDependencyFileEntries)
	record := domain.BuildRecord{
		Target:    rule.Target().String(),
		RuleKey:   key.Hash,
		DepFile:   slices.Compact(entries),
		Timestamp: time.Now().UTC(),
	}

	supported, ok := rule.(domain.SupportsDependencyFileRuleKey)
	switch {
	case ok && supported.UseDependencyFileRuleKeys():
		depFiles := rulekeys.NewDependencyFileFactory(s.hashes, s.paths, s.app.logger, seed)
		manifest, err := depFiles.BuildManifestKey(supported)
		if err != nil {
			return domain.BuildRecord{}, err
		}
		depKey, err := depFiles.Build(supported, record.DepFile)
		if err != nil {
			return domain.BuildRecord{}, err
		}
		record.ManifestKey = manifest.Key.Hash
		record.DepFileKey = depKey.Key.Hash
	case len(entries) > 0:
		return domain.BuildRecord{}, zerr.With(
			zerr.Wrap(domain.ErrPreconditionFailed, "rule does not use dependency files"),
			"target", record.Target)
	}

	if err := s.records.Put(record); err != nil {
		return domain.BuildRecord{}, err
	}
	return record, nil
}
