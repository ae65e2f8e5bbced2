package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/catkinize/internal/cmakelists"
	"git.home.luguber.info/inful/catkinize/internal/config"
	"git.home.luguber.info/inful/catkinize/internal/foundation/errors"
	"git.home.luguber.info/inful/catkinize/internal/logfields"
	"git.home.luguber.info/inful/catkinize/internal/textfile"
	"git.home.luguber.info/inful/catkinize/internal/vcs"
)

// Global is the state shared by every subcommand.
type Global struct {
	Ctx    context.Context
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer // progress notices, independent of the log level

	cfg    *config.Config
	cfgErr error
}

// NewGlobal returns a Global writing results to stdout and notices to stderr,
// logging with the default logger until AfterApply configures one.
func NewGlobal(ctx context.Context, stdout, stderr io.Writer) *Global {
	return &Global{Ctx: ctx, Logger: slog.Default(), Stdout: stdout, Stderr: stderr}
}

// notice prints a one-line progress message to stderr.
func (g *Global) notice(format string, args ...any) {
	_, _ = fmt.Fprintf(g.Stderr, format+"\n", args...)
}

// Settings returns the loaded configuration, or the error that prevented
// loading it.
func (g *Global) Settings() (*config.Config, error) {
	if g.cfgErr != nil {
		return nil, g.cfgErr
	}
	if g.cfg == nil {
		return config.Default(), nil
	}
	return g.cfg, nil
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path (default: .catkinize.yaml if present)"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log format (text or json)"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Cmakelists    CmakelistsCmd    `cmd:"" name:"cmakelists" help:"Convert a rosbuild CMakeLists.txt"`
	Manifest      ManifestCmd      `cmd:"" help:"Convert a rosbuild manifest.xml to package.xml"`
	StackManifest StackManifestCmd `cmd:"" name:"stack-manifest" help:"Convert a rosbuild stack.xml to a metapackage package.xml"`
	Package       PackageCmd       `cmd:"" help:"Convert a rosbuild package directory in place"`
	Init          InitCmd          `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; loads configuration and sets up logging
// once. A configuration error is kept for the command to report so that it
// gets its own exit code.
func (c *CLI) AfterApply(g *Global) error {
	cfg, err := config.Load(c.configPath(), c.Config != "")
	if err != nil {
		g.cfgErr = err
		cfg = config.Default()
	} else {
		g.cfg = cfg
	}

	g.Logger = newLogger(os.Stderr, c.logLevel(cfg), c.logFormat(cfg))
	slog.SetDefault(g.Logger)
	return nil
}

func (c *CLI) configPath() string {
	if c.Config != "" {
		return c.Config
	}
	return config.DefaultPath
}

func (c *CLI) logLevel(cfg *config.Config) slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	return cfg.Logging.Level.SlogLevel()
}

func (c *CLI) logFormat(cfg *config.Config) config.LogFormat {
	if c.LogFormat != "" {
		return config.NormalizeLogFormat(c.LogFormat)
	}
	return cfg.Logging.Format
}

func newLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// convertCMakeLists runs the conversion pipeline and classifies its failure.
func convertCMakeLists(logger *slog.Logger, project, path string, lines []string) ([]string, error) {
	res, err := cmakelists.NewConverter(cmakelists.DefaultRules).Convert(project, lines)
	if err != nil {
		var invErr *cmakelists.UnrecognizedInvocationError
		if stderrors.As(err, &invErr) {
			logger.Debug("Unrecognized statement", logfields.File(path), logfields.Line(invErr.Line))
			return nil, errors.ConversionError("cannot convert "+path).
				WithCause(err).
				WithContext("file", path).
				WithContext("line", invErr.Line).
				Build()
		}
		return nil, errors.InternalError("conversion failed").
			WithCause(err).
			WithContext("file", path).
			Build()
	}

	logger.Debug("Converted CMakeLists",
		logfields.File(path),
		logfields.Project(project),
		logfields.Dropped(res.Dropped),
		logfields.Expanded(res.Expanded),
		logfields.Renamed(res.Renamed),
		slog.Bool("header_added", res.HeaderAdded))
	return res.Lines, nil
}

// guardOverwrite refuses to replace an existing file whose contents git could
// not restore. Missing files and force always pass.
func guardOverwrite(ctx context.Context, path string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return vcs.CheckClean(ctx, path)
}

// writeLines replaces path atomically, keeping the mode of an existing file.
func writeLines(logger *slog.Logger, path string, lines []string) error {
	if err := textfile.WriteFile(path, lines, textfile.FileMode(path, 0o644)); err != nil {
		return err
	}
	logger.Info("Wrote file", logfields.File(path), logfields.Count(len(lines)))
	return nil
}
