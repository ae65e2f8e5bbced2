package commands

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/catkinize/internal/foundation/errors"
	"git.home.luguber.info/inful/catkinize/internal/logfields"
	"git.home.luguber.info/inful/catkinize/internal/manifest"
	"git.home.luguber.info/inful/catkinize/internal/textdiff"
	"git.home.luguber.info/inful/catkinize/internal/textfile"
)

const (
	cmakeListsFile = "CMakeLists.txt"
	manifestFile   = "manifest.xml"
	packageXMLFile = "package.xml"
)

// PackageCmd implements the 'package' command.
type PackageCmd struct {
	Dir    string `arg:"" help:"rosbuild package directory"`
	Name   string `help:"Project and package name (default: directory name)"`
	DryRun bool   `name:"dry-run" help:"Print diffs of the planned changes without writing"`
	Force  bool   `help:"Overwrite package.xml and skip the git guard"`

	Flags PackageFlags `embed:""`
}

// plannedWrite is one file the command will replace.
type plannedWrite struct {
	path   string
	before []string
	after  []string
}

// Run converts every file first and writes only when all conversions
// succeeded, so a failure leaves the package untouched.
func (p *PackageCmd) Run(g *Global, _ *CLI) error {
	cfg, err := g.Settings()
	if err != nil {
		return err
	}

	name := p.Name
	if name == "" {
		name = packageName(p.Dir)
	}
	g.notice("Converting %s", p.Dir)
	g.Logger.Debug("Converting package", logfields.Path(p.Dir), logfields.Project(name), logfields.DryRun(p.DryRun))

	cmakePath := filepath.Join(p.Dir, cmakeListsFile)
	before, err := textfile.ReadLines(cmakePath)
	if err != nil {
		return err
	}
	after, err := convertCMakeLists(g.Logger, name, cmakePath, before)
	if err != nil {
		return err
	}
	plan := []plannedWrite{{path: cmakePath, before: before, after: after}}

	manifestPath := filepath.Join(p.Dir, manifestFile)
	if _, statErr := os.Stat(manifestPath); statErr == nil {
		w, err := p.planPackageXML(manifestPath, p.Flags.options(name, cfg.Package))
		if err != nil {
			return err
		}
		plan = append(plan, w)
	} else {
		g.Logger.Warn("No manifest.xml found; package.xml not generated", logfields.Path(p.Dir))
	}

	plan = dropUnchanged(g, plan)

	if p.DryRun {
		for _, w := range plan {
			if err := textdiff.Write(g.Stdout, w.path, w.before, w.after); err != nil {
				return errors.FileSystemError("failed to write diff").WithCause(err).Build()
			}
		}
		g.Logger.Info("Dry run complete", logfields.Count(len(plan)))
		return nil
	}

	for _, w := range plan {
		if err := guardOverwrite(g.Ctx, w.path, p.Force); err != nil {
			return err
		}
	}
	for _, w := range plan {
		if err := writeLines(g.Logger, w.path, w.after); err != nil {
			return err
		}
	}
	return nil
}

func (p *PackageCmd) planPackageXML(manifestPath string, opts manifest.Options) (plannedWrite, error) {
	target := filepath.Join(p.Dir, packageXMLFile)

	var existing []string
	if _, err := os.Stat(target); err == nil {
		if !p.Force && !p.DryRun {
			return plannedWrite{}, errors.ValidationError(target + " already exists; use --force to overwrite").
				WithContext("path", target).
				Build()
		}
		if existing, err = textfile.ReadLines(target); err != nil {
			return plannedWrite{}, err
		}
	}

	data, err := readInput(manifestPath)
	if err != nil {
		return plannedWrite{}, err
	}
	lines, err := manifest.FromManifest(data, opts)
	if err != nil {
		return plannedWrite{}, withFile(err, manifestPath)
	}
	return plannedWrite{path: target, before: existing, after: lines}, nil
}

// dropUnchanged removes writes that would leave a file as it is, so an
// already converted package is not rewritten.
func dropUnchanged(g *Global, plan []plannedWrite) []plannedWrite {
	pending := plan[:0]
	for _, w := range plan {
		if !textdiff.Changed(textdiff.Lines(w.before, w.after)) {
			g.Logger.Info("Already converted", logfields.File(w.path))
			continue
		}
		pending = append(pending, w)
	}
	return pending
}
