package commands

import (
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/metagen/internal/cli/config"
	"github.com/conduit-lang/metagen/internal/cli/ui"
	errs "github.com/conduit-lang/metagen/internal/errors"
	"github.com/conduit-lang/metagen/internal/metamodel"
	"github.com/conduit-lang/metagen/internal/sink"
	"github.com/conduit-lang/metagen/internal/watch"
)

type generateOptions struct {
	json    bool
	verbose bool
	output  string
	format  string
	strict  bool
	dryRun  bool
	watch   bool
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:     "generate [source...]",
		Aliases: []string{"g"},
		Short:   "Generate metamodel classes for every persistent type",
		Long: `Read the configured type sources and write one <Name>_ metamodel class
for each @Entity, @Embeddable and @MappedSuperclass type.

Every run is a full pass. A type that cannot be generated is reported and
skipped; the other types are still written.

Sources given as arguments replace the sources in metagen.yml.`,
		Example: `  # Generate with metagen.yml settings
  metagen generate

  # Generate from a manifest directory into a custom location
  metagen generate model/ --format manifest --output target/metamodel

  # Fail types with raw collections instead of using Object
  metagen generate --strict

  # List what would be written without touching the disk
  metagen generate --dry-run

  # Output the pass summary in JSON format (useful for tooling)
  metagen generate --json

  # Regenerate on every source change
  metagen generate --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Output the pass summary in JSON format")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every loaded source and generated type")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (default from metagen.yml)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Source format: auto, manifest or java")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Treat raw collection members as errors")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Run the pass without writing files")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Regenerate whenever a source file changes")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string, opts *generateOptions) error {
	s, err := openSession(cmd, opts.verbose, func(cfg *config.Config) {
		if len(args) > 0 {
			cfg.Sources = args
		}
		if opts.output != "" {
			cfg.OutputDir = opts.output
		}
		if opts.format != "" {
			cfg.Format = opts.format
		}
		if opts.strict {
			cfg.Strict = true
		}
	})
	if err != nil {
		return err
	}
	defer s.close()

	err = generatePass(cmd, s, opts)
	if !opts.watch {
		return err
	}
	return watchSources(cmd, s, opts)
}

// generatePass loads every source, runs the processor and prints the outcome
func generatePass(cmd *cobra.Command, s *session, opts *generateOptions) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	snapshot, err := s.load()
	if err != nil {
		if opts.json {
			return writeLoadFailureJSON(cmd, err)
		}
		s.reportLoadError(err)
		return fmt.Errorf("failed to load type sources")
	}

	var filer sink.Filer = sink.NewOSFiler(s.cfg.OutputDir)
	var discard *sink.DiscardFiler
	if opts.dryRun {
		discard = &sink.DiscardFiler{}
		filer = discard
	}

	report, err := s.processor(snapshot, filer).Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("generation interrupted: %w", err)
	}

	if opts.json {
		output, err := errs.FormatDiagnosticsAsJSON(report.RunID, report.Generated(), report.Skipped(), report.Diagnostics())
		if err != nil {
			return fmt.Errorf("failed to format report: %w", err)
		}
		fmt.Fprintln(out, output)
	} else {
		for _, d := range report.Diagnostics() {
			fmt.Fprint(s.stderr, ui.DiagnosticMessage(d, s.noColor))
		}
		printGenerateSummary(cmd, s, report, discard, time.Since(startTime))
	}

	if report.HasErrors() {
		return fmt.Errorf("%d persistent type(s) could not be generated", report.Skipped())
	}
	return nil
}

// watchSources reruns the full pass whenever a source file changes, until the
// command's context is cancelled. Failed passes are reported and watching goes on.
func watchSources(cmd *cobra.Command, s *session, opts *generateOptions) error {
	var mu sync.Mutex
	w, err := watch.New(watch.Options{
		Roots:   s.cfg.Sources,
		Exclude: []string{s.cfg.OutputDir},
		Logger:  s.logger,
	}, func(files []string) {
		mu.Lock()
		defer mu.Unlock()

		if !opts.json {
			fmt.Fprint(cmd.OutOrStdout(), ui.Info(fmt.Sprintf("%d source file(s) changed, regenerating", len(files)), s.noColor))
		}
		if err := generatePass(cmd, s, opts); err != nil {
			fmt.Fprint(s.stderr, ui.Warning(err.Error(), s.noColor))
		}
	})
	if err != nil {
		return err
	}

	if !opts.json {
		fmt.Fprint(cmd.OutOrStdout(), ui.Info("Watching for changes (Ctrl+C to stop)", s.noColor))
	}
	return w.Run(cmd.Context())
}

func printGenerateSummary(cmd *cobra.Command, s *session, report *metamodel.Report, discard *sink.DiscardFiler, elapsed time.Duration) {
	out := cmd.OutOrStdout()

	if len(report.Results) == 0 {
		fmt.Fprint(out, ui.Warning("No persistent types found in the configured sources", s.noColor))
		return
	}

	if discard != nil {
		fmt.Fprint(out, ui.Info(fmt.Sprintf("Dry run: %d metamodel class(es) would be written", len(discard.Names())), s.noColor))
		for _, name := range discard.Names() {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return
	}

	ui.WriteSuccess(out, fmt.Sprintf("Generated %d metamodel class(es) in %s", report.Generated(), s.cfg.OutputDir), s.noColor)
	if skipped := report.Skipped(); skipped > 0 {
		warn := color.New(color.FgYellow)
		if s.noColor {
			warn.DisableColor()
		}
		warn.Fprintf(out, "  %d type(s) skipped\n", skipped)
	}
	fmt.Fprintf(out, "  Completed in %s\n", elapsed.Round(time.Millisecond))
}

// writeLoadFailureJSON reports a load failure in the same JSON shape as a pass
func writeLoadFailureJSON(cmd *cobra.Command, err error) error {
	var diag errs.Diagnostic
	if !stderrors.As(err, &diag) {
		diag = errs.New(errs.PhaseLoad, errs.ErrSourceLoad, err.Error(), errs.Error).WithCause(err)
	}
	output, ferr := errs.FormatDiagnosticsAsJSON("", 0, 0, []errs.Diagnostic{diag})
	if ferr != nil {
		return ferr
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return fmt.Errorf("failed to load type sources")
}
