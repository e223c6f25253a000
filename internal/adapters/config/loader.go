// Package config provides the cairn.yaml loader.
package config

import (
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader by reading cairn.yaml from the nearest enclosing directory.
type Loader struct {
	fs     afero.Fs
	logger ports.Logger
	getenv func(string) string
}

// NewLoader creates a loader reading from fsys and the process environment.
func NewLoader(fsys afero.Fs, logger ports.Logger) *Loader {
	return &Loader{fs: fsys, logger: logger, getenv: os.Getenv}
}

// WithGetenv replaces the environment lookup.
func (l *Loader) WithGetenv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// Load finds the project root above cwd and returns its settings and validated target graph.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}
	root := filepath.Dir(configPath)

	var cairnfile Cairnfile
	if err := l.readAndUnmarshalYAML(configPath, &cairnfile); err != nil {
		return nil, err
	}

	settings, err := l.settings(root, &cairnfile)
	if err != nil {
		return nil, err
	}

	graph, err := buildGraph(cairnfile.Targets)
	if err != nil {
		return nil, zerr.With(err, "config", configPath)
	}

	l.logger.Debug("loaded project", "root", root, "targets", graph.Len())
	return &domain.Project{Settings: settings, Graph: graph}, nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := filepath.Clean(cwd)
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := l.fs.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}
	return "", zerr.With(domain.WithMeta(domain.ErrConfigNotFound, "cwd", cwd), "file", domain.ConfigFileName)
}

func (l *Loader) readAndUnmarshalYAML(path string, v any) error {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "failed to parse config file"), "path", path), "error", err.Error())
	}
	return nil
}

// settings merges the file over the defaults and applies environment overrides.
func (l *Loader) settings(root string, f *Cairnfile) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	settings.Root = root

	if f.OutputDir != "" {
		settings.OutputDir = filepath.ToSlash(filepath.Clean(f.OutputDir))
	}
	for _, ignore := range f.Ignore {
		settings.Ignore = append(settings.Ignore, filepath.ToSlash(filepath.Clean(ignore)))
	}
	slices.Sort(settings.Ignore)
	settings.Ignore = slices.Compact(settings.Ignore)
	if len(f.ArchiveExtensions) > 0 {
		settings.ArchiveExtensions = normalizeExtensions(f.ArchiveExtensions)
	}
	if f.HashCache.Mode != "" {
		settings.HashCacheMode = domain.HashCacheMode(f.HashCache.Mode)
	}
	if f.HashCache.Limit != 0 {
		settings.HashCacheLimit = f.HashCache.Limit
	}
	settings.Parallelism = f.ActionGraph.Parallelism
	if f.ActionGraph.Parallel != nil {
		settings.ParallelActionGraph = *f.ActionGraph.Parallel
	}
	settings.CheckActionGraphs = f.ActionGraph.Check
	settings.SkipActionGraphCache = f.ActionGraph.SkipCache
	settings.RuleKeySeed = f.RuleKeys.Seed

	env, err := readEnvironment(l.fs, root, l.getenv)
	if err != nil {
		return settings, err
	}
	if err := env.apply(&settings); err != nil {
		return settings, err
	}

	if !domain.KnownHashCacheMode(settings.HashCacheMode) {
		return settings, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "unknown hash cache mode"), "mode", string(settings.HashCacheMode))
	}
	if settings.HashCacheLimit <= 0 {
		return settings, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "hash cache limit must be positive"), "limit", settings.HashCacheLimit)
	}
	if settings.Parallelism <= 0 {
		settings.Parallelism = runtime.NumCPU()
	}
	return settings, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// buildGraph parses every target definition and validates the resulting graph.
func buildGraph(targets map[string]TargetDTO) (*domain.TargetGraph, error) {
	g := domain.NewTargetGraph()

	for _, name := range slices.Sorted(maps.Keys(targets)) {
		dto := targets[name]
		target, err := domain.ParseBuildTarget(name)
		if err != nil {
			return nil, err
		}
		if dto.Type == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "target has no type"), "target", name)
		}

		deps := make([]domain.BuildTarget, 0, len(dto.Deps))
		for _, dep := range dto.Deps {
			resolved, err := resolveDep(target, dep)
			if err != nil {
				return nil, zerr.With(err, "target", name)
			}
			deps = append(deps, resolved)
		}
		deps = domain.SortBuildTargets(deps)
		deps = slices.Compact(deps)

		node := &domain.TargetNode{
			Target:        target,
			Type:          dto.Type,
			Deps:          deps,
			Args:          dto.Args,
			RawInputsHash: rawInputsHash(target, dto, deps),
		}
		if err := g.AddNode(node); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// resolveDep accepts fully qualified targets and ":name" shorthands for targets in the same package.
func resolveDep(from domain.BuildTarget, dep string) (domain.BuildTarget, error) {
	if strings.HasPrefix(dep, ":") {
		dep = "//" + from.BasePath() + dep
	}
	return domain.ParseBuildTarget(dep)
}
