package commands

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/catkinize/internal/foundation/errors"
	"git.home.luguber.info/inful/catkinize/internal/logfields"
	"git.home.luguber.info/inful/catkinize/internal/manifest"
)

// StackManifestCmd implements the 'stack-manifest' command.
type StackManifestCmd struct {
	StackPath      string   `arg:"" name:"stack-path" help:"Stack directory; its base name is the metapackage name"`
	StackManifest  string   `arg:"" name:"stack-xml" help:"rosbuild stack.xml to convert"`
	Packages       []string `help:"Packages of the stack (default: every directory below the stack holding a manifest.xml or package.xml)" sep:","`
	PackageVersion string   `name:"package-version" help:"Version written to package.xml (default from config)"`
	Output         string   `short:"o" help:"Write package.xml to this file instead of stdout"`
	Force          bool     `help:"Overwrite an existing output file"`
}

func (s *StackManifestCmd) Run(g *Global, _ *CLI) error {
	cfg, err := g.Settings()
	if err != nil {
		return err
	}

	data, err := readInput(s.StackManifest)
	if err != nil {
		return err
	}

	packages := s.Packages
	if len(packages) == 0 {
		if packages, err = FindPackages(s.StackPath); err != nil {
			return err
		}
	}

	version := cfg.Package.Version
	if s.PackageVersion != "" {
		version = s.PackageVersion
	}

	name := packageName(s.StackPath)
	g.notice("Converting %s", s.StackManifest)
	g.Logger.Debug("Converting stack manifest",
		logfields.File(s.StackManifest),
		logfields.Project(name),
		logfields.Count(len(packages)))
	lines, err := manifest.FromStackManifest(data, name, version, packages)
	if err != nil {
		return withFile(err, s.StackManifest)
	}
	return emit(g, s.Output, s.Force, lines)
}

// FindPackages lists the names of the directories below root that hold a
// manifest.xml or package.xml, sorted. Hidden directories are skipped and
// the search does not descend into a package.
func FindPackages(root string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		for _, marker := range []string{"manifest.xml", "package.xml"} {
			if _, statErr := os.Stat(filepath.Join(path, marker)); statErr == nil {
				names = append(names, d.Name())
				return filepath.SkipDir
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to scan stack directory").
			WithContext("path", root).
			Build()
	}
	sort.Strings(names)
	return names, nil
}
