package commands

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/catkinize/internal/config"
	"git.home.luguber.info/inful/catkinize/internal/foundation/errors"
	"git.home.luguber.info/inful/catkinize/internal/logfields"
	"git.home.luguber.info/inful/catkinize/internal/manifest"
	"git.home.luguber.info/inful/catkinize/internal/textfile"
)

// PackageFlags override the package section of the configuration.
type PackageFlags struct {
	PackageVersion          string   `name:"package-version" help:"Version written to package.xml (default from config)"`
	BugtrackerURL           string   `name:"bugtracker-url" help:"Bug tracker URL written to package.xml"`
	ArchitectureIndependent bool     `name:"architecture-independent" help:"Mark the package architecture independent"`
	Metapackage             bool     `help:"Mark the package as a metapackage"`
	Replaces                []string `help:"Packages this package replaces" sep:","`
	Conflicts               []string `help:"Packages this package conflicts with" sep:","`
}

// options merges the flags over the configured package defaults.
func (f PackageFlags) options(name string, cfg config.PackageConfig) manifest.Options {
	opts := manifest.Options{
		PackageName:             name,
		Version:                 cfg.Version,
		ArchitectureIndependent: cfg.ArchitectureIndependent || f.ArchitectureIndependent,
		Metapackage:             cfg.Metapackage || f.Metapackage,
		BugtrackerURL:           cfg.BugtrackerURL,
		Replaces:                cfg.Replaces,
		Conflicts:               cfg.Conflicts,
	}
	if f.PackageVersion != "" {
		opts.Version = f.PackageVersion
	}
	if f.BugtrackerURL != "" {
		opts.BugtrackerURL = f.BugtrackerURL
	}
	if len(f.Replaces) > 0 {
		opts.Replaces = f.Replaces
	}
	if len(f.Conflicts) > 0 {
		opts.Conflicts = f.Conflicts
	}
	return opts
}

// ManifestCmd implements the 'manifest' command.
type ManifestCmd struct {
	PackagePath string `arg:"" name:"package-path" help:"Package directory; its base name is the package name"`
	Manifest    string `arg:"" name:"manifest" help:"rosbuild manifest.xml to convert"`
	Output      string `short:"o" help:"Write package.xml to this file instead of stdout"`
	Force       bool   `help:"Overwrite an existing output file"`

	Flags PackageFlags `embed:""`
}

func (m *ManifestCmd) Run(g *Global, _ *CLI) error {
	cfg, err := g.Settings()
	if err != nil {
		return err
	}

	data, err := readInput(m.Manifest)
	if err != nil {
		return err
	}

	name := packageName(m.PackagePath)
	g.notice("Converting %s", m.Manifest)
	g.Logger.Debug("Converting manifest", logfields.File(m.Manifest), logfields.Project(name))
	lines, err := manifest.FromManifest(data, m.Flags.options(name, cfg.Package))
	if err != nil {
		return withFile(err, m.Manifest)
	}
	return emit(g, m.Output, m.Force, lines)
}

// packageName is the base name of dir after cleaning, so "pkg/" and "./pkg"
// both name "pkg".
func packageName(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Base(filepath.Clean(dir))
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-selected input
	if err == nil {
		return data, nil
	}
	if os.IsNotExist(err) {
		return nil, errors.NewError(errors.CategoryNotFound, "file not found: "+path).
			WithContext("path", path).
			Build()
	}
	return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read file").
		WithContext("path", path).
		Build()
}

// withFile records which input a classified error came from.
func withFile(err error, path string) error {
	if ce, ok := errors.AsClassified(err); ok {
		return ce.WithContext("file", path)
	}
	return err
}

// emit writes lines to stdout or, when output is set, to a new file.
func emit(g *Global, output string, force bool, lines []string) error {
	if output == "" {
		if err := textfile.WriteTo(g.Stdout, lines); err != nil {
			return errors.FileSystemError("failed to write output").WithCause(err).Build()
		}
		return nil
	}

	if err := refuseExisting(output, force); err != nil {
		return err
	}
	if err := guardOverwrite(g.Ctx, output, force); err != nil {
		return err
	}
	return writeLines(g.Logger, output, lines)
}

func refuseExisting(path string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return errors.ValidationError(path + " already exists; use --force to overwrite").
			WithContext("path", path).
			Build()
	}
	return nil
}
