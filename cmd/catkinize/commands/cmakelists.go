package commands

import (
	"git.home.luguber.info/inful/catkinize/internal/foundation/errors"
	"git.home.luguber.info/inful/catkinize/internal/logfields"
	"git.home.luguber.info/inful/catkinize/internal/textdiff"
	"git.home.luguber.info/inful/catkinize/internal/textfile"
)

// CmakelistsCmd implements the 'cmakelists' command.
type CmakelistsCmd struct {
	Project string `arg:"" help:"Catkin project name"`
	Path    string `arg:"" help:"rosbuild CMakeLists.txt to convert"`

	Output  string `short:"o" help:"Write the result to this file instead of stdout" xor:"dest"`
	InPlace bool   `short:"i" name:"in-place" help:"Overwrite the input file" xor:"dest"`
	Diff    bool   `help:"Print a line diff instead of the converted file" xor:"dest"`
	Force   bool   `help:"Write even when the target has uncommitted git changes"`
}

func (c *CmakelistsCmd) Run(g *Global, _ *CLI) error {
	if _, err := g.Settings(); err != nil {
		return err
	}

	lines, err := textfile.ReadLines(c.Path)
	if err != nil {
		return err
	}

	g.notice("Converting %s", c.Path)
	g.Logger.Debug("Converting CMakeLists", logfields.File(c.Path), logfields.Project(c.Project))
	out, err := convertCMakeLists(g.Logger, c.Project, c.Path, lines)
	if err != nil {
		return err
	}

	switch {
	case c.Diff:
		if err := textdiff.Write(g.Stdout, c.Path, lines, out); err != nil {
			return errors.FileSystemError("failed to write diff").WithCause(err).Build()
		}
		return nil
	case c.InPlace:
		return c.write(g, c.Path, out)
	case c.Output != "":
		return c.write(g, c.Output, out)
	default:
		if err := textfile.WriteTo(g.Stdout, out); err != nil {
			return errors.FileSystemError("failed to write output").WithCause(err).Build()
		}
		return nil
	}
}

func (c *CmakelistsCmd) write(g *Global, path string, lines []string) error {
	if err := guardOverwrite(g.Ctx, path, c.Force); err != nil {
		return err
	}
	return writeLines(g.Logger, path, lines)
}
