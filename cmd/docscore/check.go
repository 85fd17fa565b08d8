package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dshills/docscore/internal/assess"
	"github.com/dshills/docscore/internal/batch"
	"github.com/dshills/docscore/internal/config"
	"github.com/dshills/docscore/internal/logging"
	"github.com/dshills/docscore/internal/metrics"
	"github.com/dshills/docscore/internal/probe"
	"github.com/dshills/docscore/internal/redact"
	"github.com/dshills/docscore/internal/render"
	"github.com/dshills/docscore/internal/review"
)

type checkFlags struct {
	format      string
	summary     bool
	verbose     bool
	out         string
	configPath  string
	skipProbe   bool
	jobs        int
	metricsFile string
	logLevel    string
	progress    bool

	// set records which flags were given explicitly; only those override
	// the config file.
	set map[string]bool

	// probers replaces the resolved probe set when non-nil.
	probers probe.Set
	stdout  io.Writer
	stderr  io.Writer
}

func newCheckCmd() *cobra.Command {
	f := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Score documents and print a quality report",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.set = changedFlags(cmd)
			return runCheck(cmd.Context(), args, f)
		},
	}

	addScoreFlags(cmd, f)
	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", config.DefaultFormat, "Output format: text, json or sarif")
	flags.BoolVar(&f.summary, "summary", false, "Print only score and status")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	flags.BoolVar(&f.progress, "progress", false, "Show a progress bar on stderr when it is a terminal")

	return cmd
}

// addScoreFlags registers the flags shared by check and watch.
func addScoreFlags(cmd *cobra.Command, f *checkFlags) {
	flags := cmd.Flags()
	flags.BoolVar(&f.verbose, "verbose", false, "List minor issues and issue details")
	flags.StringVar(&f.configPath, "config", "", "Config file (default: .docscore.* found upward)")
	flags.BoolVar(&f.skipProbe, "skip-probe", false, "Do not run quarto, Rscript or the Python parser")
	flags.IntVar(&f.jobs, "jobs", 0, "Documents scored in parallel (default: config or CPU count)")
	flags.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error")
}

func changedFlags(cmd *cobra.Command) map[string]bool {
	set := map[string]bool{}
	for _, name := range []string{"format", "jobs", "skip-probe", "log-level"} {
		if fl := cmd.Flags().Lookup(name); fl != nil && fl.Changed {
			set[name] = true
		}
	}
	return set
}

func (f *checkFlags) stdoutWriter() io.Writer {
	if f.stdout != nil {
		return f.stdout
	}
	return os.Stdout
}

func (f *checkFlags) stderrWriter() io.Writer {
	if f.stderr != nil {
		return f.stderr
	}
	return os.Stderr
}

// renderer binds text styling to the final destination rather than the
// staging buffer, so color appears only when stdout is a terminal.
func (f *checkFlags) renderer() *lipgloss.Renderer {
	if f.out != "" {
		return lipgloss.NewRenderer(io.Discard)
	}
	return lipgloss.NewRenderer(f.stdoutWriter())
}

// scorer bundles what both check and watch need to score documents.
type scorer struct {
	cfg *config.Config
	env assess.Env
	log *slog.Logger
}

func newScorer(f *checkFlags) (*scorer, error) {
	cfg, err := config.Load(f.configPath, ".")
	if err != nil {
		return nil, exitError(exitUsage, "%v", err)
	}
	if f.set["format"] {
		cfg.Format = f.format
	}
	if f.set["jobs"] {
		cfg.Jobs = f.jobs
	}
	if f.set["skip-probe"] {
		cfg.SkipProbe = f.skipProbe
	}
	if f.set["log-level"] {
		cfg.LogLevel = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, exitError(exitUsage, "%v", err)
	}

	log, err := logging.New(f.stderrWriter(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, exitError(exitUsage, "%v", err)
	}
	if cfg.Path != "" {
		log.Debug("loaded config", "path", cfg.Path)
	}

	probers := f.probers
	if probers == nil {
		probers, err = probe.ResolveAll(cfg.ProbeOptions())
		if err != nil {
			return nil, fmt.Errorf("resolve probers: %w", err)
		}
	}

	return &scorer{
		cfg: cfg,
		log: log,
		env: assess.Env{
			Probers:      probers,
			Redactor:     redact.New(),
			Bibliography: cfg.Bibliography,
			Logger:       log,
		},
	}, nil
}

// score scores one file and rejects reports that fail validation.
func (s *scorer) score(ctx context.Context, path string) (review.Report, error) {
	return assess.File(ctx, path, s.env)
}

func (s *scorer) run(ctx context.Context, paths []string, progress batch.Progress) []batch.Result {
	results := batch.Run(ctx, paths, batch.Options{Jobs: s.cfg.Jobs, Progress: progress}, s.score)
	for _, r := range results {
		switch r.Outcome {
		case batch.OutcomeSkipped:
			s.log.Warn("skipped", "path", r.Path, "err", r.Err)
		case batch.OutcomeMissing:
			s.log.Error("file not found", "path", r.Path)
		case batch.OutcomeFault:
			s.log.Error("scoring failed", "path", r.Path, "err", r.Err)
		}
	}
	return results
}

func runCheck(ctx context.Context, paths []string, f *checkFlags) error {
	s, err := newScorer(f)
	if err != nil {
		return err
	}

	results := s.run(ctx, paths, batch.NewProgress(f.progress, len(paths)))

	var buf bytes.Buffer
	switch s.cfg.Format {
	case "json":
		err = render.JSON(&buf, batch.Reports(results))
	case "sarif":
		err = render.SARIF(&buf, results, version)
	default:
		err = render.Results(&buf, results, render.TextOptions{
			Summary:  f.summary,
			Verbose:  f.verbose,
			Renderer: f.renderer(),
		})
	}
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}

	if f.out != "" {
		if err := os.WriteFile(f.out, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else if _, err := f.stdoutWriter().Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if f.metricsFile != "" {
		rec := metrics.New()
		rec.Observe(results)
		if err := rec.WriteTextfile(f.metricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if code := render.ExitCode(results); code != render.ExitOK {
		return &exitErr{code: code}
	}
	return nil
}
