package commands

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/metagen/internal/cli/config"
	"github.com/conduit-lang/metagen/internal/cli/ui"
	errs "github.com/conduit-lang/metagen/internal/errors"
	"github.com/conduit-lang/metagen/internal/introspect"
	"github.com/conduit-lang/metagen/internal/logging"
	"github.com/conduit-lang/metagen/internal/metamodel"
	"github.com/conduit-lang/metagen/internal/sink"
	"github.com/conduit-lang/metagen/internal/source"
)

// Swapped in tests
var (
	newLogger = logging.New
	sourceFs  = afero.NewOsFs
)

// session is the state shared by commands that read type sources
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	noColor bool
	stderr  io.Writer
}

// openSession loads metagen.yml, applies flag overrides and builds the logger.
// Configuration errors are printed before they are returned.
func openSession(cmd *cobra.Command, verbose bool, override func(*config.Config)) (*session, error) {
	s := &session{noColor: noColor(cmd), stderr: cmd.ErrOrStderr()}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprint(s.stderr, ui.ConfigError(err.Error(), s.noColor))
		return nil, err
	}
	if override != nil {
		override(cfg)
	}
	if _, err := source.ParseFormat(cfg.Format); err != nil {
		fmt.Fprint(s.stderr, ui.ConfigError(err.Error(), s.noColor))
		return nil, err
	}
	s.cfg = cfg

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	s.logger, err = newLogger(logging.Options{Level: level, JSON: cfg.Log.JSON})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// load reads every configured source into one linked snapshot
func (s *session) load() (*introspect.Snapshot, error) {
	format, _ := source.ParseFormat(s.cfg.Format)
	return source.NewLoader(sourceFs(), format, s.logger).Load(s.cfg.Sources)
}

// processor builds a processor over u honouring the session's configuration
func (s *session) processor(u introspect.Universe, filer sink.Filer) *metamodel.Processor {
	return metamodel.NewProcessor(u, filer, metamodel.Options{
		MetamodelPackage:  s.cfg.MetamodelPackage,
		MaxSupertypeDepth: s.cfg.MaxSupertypeDepth,
		Strict:            s.cfg.Strict,
		Logger:            s.logger,
	})
}

// reportLoadError prints a source loading failure
func (s *session) reportLoadError(err error) {
	var diag errs.Diagnostic
	if stderrors.As(err, &diag) {
		fmt.Fprint(s.stderr, ui.DiagnosticMessage(diag, s.noColor))
		return
	}
	ui.WriteError(s.stderr, ui.ErrorOptions{
		Context: "source load",
		Problem: err.Error(),
		NoColor: s.noColor,
	})
}

func (s *session) close() {
	_ = s.logger.Sync()
}
