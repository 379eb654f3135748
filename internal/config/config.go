// internal/config/config.go
//
// This package handles configuration and the .graft directory structure.
// A project that uses graft keeps its settings in .graft/config.yaml; every
// value can be overridden with a GRAFT_* environment variable.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/kingrea/graft/internal/artifact"
	"github.com/kingrea/graft/internal/rewrite"
	"github.com/kingrea/graft/internal/task"
)

const (
	// GraftDir is the name of the directory we create in each project
	GraftDir = ".graft"

	// EnvPrefix marks environment variables that override config keys.
	EnvPrefix = "GRAFT_"

	defaultFence = "cpp"
)

// ArtifactConfig locates task output files.
type ArtifactConfig struct {
	Dir       string `yaml:"dir" koanf:"dir"`
	Extension string `yaml:"extension" koanf:"extension"`
}

// TargetConfig describes the codebase fragments are destined for.
type TargetConfig struct {
	Repo string `yaml:"repo" koanf:"repo"`
}

// ProjectConfig models .graft/config.yaml.
type ProjectConfig struct {
	Version   int               `yaml:"version" koanf:"version"`
	Artifacts ArtifactConfig    `yaml:"artifacts" koanf:"artifacts"`
	Fence     string            `yaml:"fence" koanf:"fence"`
	Rename    rewrite.Namespace `yaml:"rename" koanf:"rename"`
	Target    TargetConfig      `yaml:"target" koanf:"target"`
	Tasks     []task.Descriptor `yaml:"tasks" koanf:"tasks"`
	NextSteps []string          `yaml:"next_steps,omitempty" koanf:"next_steps"`
}

// Config holds the runtime configuration for graft.
type Config struct {
	// ProjectDir is the directory graft was run from (or --project)
	ProjectDir string

	// GraftProjectDir is ProjectDir/.graft
	GraftProjectDir string

	// Source is the config file that was loaded, empty when defaults were used
	Source string

	Project ProjectConfig
}

// InitDir creates the .graft directory structure in the given project
// directory and writes a default config.yaml if none exists.
//
// Structure created:
// .graft/
// ├── config.yaml
// ├── logs/    <- graft.log and runs.log
// └── tasks/   <- default location task outputs are read from
func InitDir(projectDir string) error {
	graftDir := filepath.Join(projectDir, GraftDir)
	for _, dir := range []string{
		filepath.Join(graftDir, "logs"),
		filepath.Join(graftDir, "tasks"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: ensure %s: %w", dir, err)
		}
	}
	return ensureProjectConfig(filepath.Join(graftDir, "config.yaml"))
}

// Load reads the project config. An empty configPath means
// <projectDir>/.graft/config.yaml, which may be absent; an explicit path must
// exist. Environment overrides apply in both cases.
func Load(projectDir, configPath string) (*Config, error) {
	absProject, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("config: resolve project dir: %w", err)
	}
	cfg := &Config{
		ProjectDir:      absProject,
		GraftProjectDir: filepath.Join(absProject, GraftDir),
	}

	explicit := strings.TrimSpace(configPath) != ""
	path := cfg.ProjectConfigPath()
	if explicit {
		path = resolvePath(absProject, configPath)
	}

	k := koanf.New(".")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.Source = path
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	var parsed ProjectConfig
	if err := k.Unmarshal("", &parsed); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	parsed.applyDefaults()
	parsed.normalize(absProject)
	if err := parsed.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Project = parsed
	return cfg, nil
}

// envKey maps GRAFT_ARTIFACTS_DIR to artifacts.dir and GRAFT_FENCE to fence.
// Only the first underscore after the prefix separates section from field.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	if parts[0] == "next" {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// listKeys take a comma-separated value from the environment.
var listKeys = map[string]bool{
	"rename.macros": true,
	"next_steps":    true,
}

// envValue maps the variable name with envKey and splits list values, so
// GRAFT_RENAME_MACROS=ASSERT,CONCAT yields two macros.
func envValue(name, value string) (string, any) {
	key := envKey(name)
	if !listKeys[key] {
		return key, value
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.GraftProjectDir, "logs")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.GraftProjectDir, "config.yaml")
}

// ArtifactsDir returns the directory task outputs are read from.
func (c *Config) ArtifactsDir() string {
	return c.Project.Artifacts.Dir
}

// Registry builds the immutable task registry.
func (c *Config) Registry() (task.Registry, error) {
	return task.NewRegistry(c.Project.Tasks...)
}

// Rules builds the rewrite table for the configured rename.
func (c *Config) Rules() (rewrite.Rules, error) {
	return rewrite.ForNamespace(c.Project.Rename)
}

// Tracker builds an artifact tracker for the configured directory.
func (c *Config) Tracker(opts ...artifact.TrackerOption) *artifact.Tracker {
	opts = append([]artifact.TrackerOption{artifact.WithExtension(c.Project.Artifacts.Extension)}, opts...)
	return artifact.NewTracker(c.Project.Artifacts.Dir, opts...)
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Artifacts: ArtifactConfig{
			Dir:       filepath.Join(GraftDir, "tasks"),
			Extension: artifact.DefaultExtension,
		},
		Fence:  defaultFence,
		Rename: rewrite.DefaultNamespace(),
		Target: TargetConfig{Repo: "."},
		Tasks:  task.Defaults(),
	}
}

func (pc *ProjectConfig) applyDefaults() {
	defaults := defaultProjectConfig()
	if pc.Version == 0 {
		pc.Version = defaults.Version
	}
	if strings.TrimSpace(pc.Artifacts.Dir) == "" {
		pc.Artifacts.Dir = defaults.Artifacts.Dir
	}
	if pc.Artifacts.Extension == "" {
		pc.Artifacts.Extension = defaults.Artifacts.Extension
	}
	if strings.TrimSpace(pc.Fence) == "" {
		pc.Fence = defaults.Fence
	}
	pc.Rename = defaultRename(pc.Rename, defaults.Rename)
	if strings.TrimSpace(pc.Target.Repo) == "" {
		pc.Target.Repo = defaults.Target.Repo
	}
	if len(pc.Tasks) == 0 {
		pc.Tasks = defaults.Tasks
	}
}

// defaultRename fills each empty field of ns on its own. Guard symbols are
// only derived when the source namespace is the default one; their new
// names follow ns.To.
func defaultRename(ns, defaults rewrite.Namespace) rewrite.Namespace {
	if strings.TrimSpace(ns.From) == "" {
		ns.From = defaults.From
	}
	if strings.TrimSpace(ns.To) == "" {
		ns.To = defaults.To
	}
	if ns.Macros == nil {
		ns.Macros = append([]string(nil), defaults.Macros...)
	}
	if ns.Symbols == nil && strings.EqualFold(strings.TrimSpace(ns.From), defaults.From) {
		for _, sym := range defaults.Symbols {
			suffix := strings.TrimPrefix(sym.From, defaults.From)
			ns.Symbols = append(ns.Symbols, rewrite.Literal{
				From: sym.From,
				To:   strings.ToLower(strings.TrimSpace(ns.To)) + suffix,
			})
		}
	}
	return ns
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Artifacts.Dir = resolvePath(base, pc.Artifacts.Dir)
	pc.Artifacts.Extension = strings.TrimSpace(pc.Artifacts.Extension)
	if pc.Artifacts.Extension != "" && !strings.HasPrefix(pc.Artifacts.Extension, ".") {
		pc.Artifacts.Extension = "." + pc.Artifacts.Extension
	}
	pc.Fence = strings.TrimSpace(pc.Fence)
	pc.Rename.From = strings.TrimSpace(pc.Rename.From)
	pc.Rename.To = strings.TrimSpace(pc.Rename.To)
	pc.Target.Repo = resolvePath(base, pc.Target.Repo)
	for i := range pc.Tasks {
		pc.Tasks[i].ID = strings.TrimSpace(pc.Tasks[i].ID)
		pc.Tasks[i].Description = strings.TrimSpace(pc.Tasks[i].Description)
	}
	if len(pc.NextSteps) == 0 {
		pc.NextSteps = defaultNextSteps(pc.Target.Repo)
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Fence == "" || strings.ContainsAny(pc.Fence, " \t`") {
		return fmt.Errorf("fence must be a single language tag, got %q", pc.Fence)
	}
	if err := pc.Rename.Validate(); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	if _, err := task.NewRegistry(pc.Tasks...); err != nil {
		return fmt.Errorf("tasks: %w", err)
	}
	return nil
}

func defaultNextSteps(repo string) []string {
	return []string{
		fmt.Sprintf("bash %s", filepath.Join(repo, "scripts", "format.sh")),
		fmt.Sprintf("bash %s", filepath.Join(repo, "scripts", "lint.sh")),
		fmt.Sprintf("cd %s && rm -rf build && mkdir build && cd build", repo),
		"cmake .. && cmake --build . && ctest",
	}
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

const configHeader = `# graft project configuration
# Values can be overridden with GRAFT_* environment variables,
# e.g. GRAFT_ARTIFACTS_DIR=/tmp/tasks or GRAFT_RENAME_TO=ewss.
# List values are comma-separated: GRAFT_RENAME_MACROS=ASSERT,CONCAT.
`

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	data, err := yamlv3.Marshal(defaultProjectConfig())
	if err != nil {
		return fmt.Errorf("config: encode default config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), data...), 0o644)
}
