package metamodel

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	errs "github.com/conduit-lang/metagen/internal/errors"
	"github.com/conduit-lang/metagen/internal/introspect"
	"github.com/conduit-lang/metagen/internal/sink"
)

// Options configures a Processor
type Options struct {
	MetamodelPackage  string
	MaxSupertypeDepth int
	// Strict turns raw-container placeholders into errors that abandon the type
	Strict bool
	Logger *zap.Logger
	RunID  string
}

// Analysis is everything resolved for one persistent type before emission
type Analysis struct {
	Type       *introspect.TypeDecl
	Access     introspect.AccessType
	Ancestor   *introspect.TypeDecl
	Attributes []ResolvedAttribute
}

// Result is the outcome of processing one persistent type
type Result struct {
	Type        string            `json:"type"`
	Output      string            `json:"output"`
	Ancestor    string            `json:"ancestor,omitempty"`
	Attributes  int               `json:"attributes"`
	Generated   bool              `json:"generated"`
	Diagnostics []errs.Diagnostic `json:"diagnostics,omitempty"`
}

// Report is the outcome of a full pass
type Report struct {
	RunID   string   `json:"run_id"`
	Results []Result `json:"results"`
}

// Generated counts the types whose metamodel class was written
func (r *Report) Generated() int {
	n := 0
	for _, res := range r.Results {
		if res.Generated {
			n++
		}
	}
	return n
}

// Skipped counts the persistent types that produced no output
func (r *Report) Skipped() int {
	return len(r.Results) - r.Generated()
}

// Diagnostics returns every diagnostic of the pass in processing order
func (r *Report) Diagnostics() []errs.Diagnostic {
	var all []errs.Diagnostic
	for _, res := range r.Results {
		all = append(all, res.Diagnostics...)
	}
	return all
}

// HasErrors reports whether any type failed
func (r *Report) HasErrors() bool {
	for _, d := range r.Diagnostics() {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Processor runs a generation pass over a universe of types
type Processor struct {
	universe introspect.Universe
	filer    sink.Filer
	emitter  *Emitter
	opts     Options
	logger   *zap.Logger
}

// NewProcessor creates a processor writing through filer
func NewProcessor(u introspect.Universe, filer sink.Filer, opts Options) *Processor {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.MaxSupertypeDepth <= 0 {
		opts.MaxSupertypeDepth = DefaultMaxSupertypeDepth
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		universe: u,
		filer:    filer,
		emitter:  NewEmitter(opts.MetamodelPackage),
		opts:     opts,
		logger:   logger.With(zap.String("run_id", opts.RunID)),
	}
}

// Run processes every persistent root type. Types are independent: a failure
// is recorded in the report and the pass moves on. The only error returned is
// the context's, when the pass is cancelled between types.
func (p *Processor) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: p.opts.RunID}
	for _, d := range p.universe.Roots() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !introspect.IsPersistent(d) {
			continue
		}
		report.Results = append(report.Results, p.Process(d))
	}

	p.logger.Info("metamodel pass complete",
		zap.Int("generated", report.Generated()),
		zap.Int("skipped", report.Skipped()))
	return report, nil
}

// Process analyzes and emits the metamodel class of one persistent type
func (p *Processor) Process(d *introspect.TypeDecl) Result {
	res := Result{Type: d.QualifiedName, Output: MetamodelName(d)}
	log := p.logger.With(zap.String("type", d.QualifiedName))
	log.Info("generating metamodel", zap.String("output", res.Output))

	analysis, diags := p.Analyze(d)
	res.Diagnostics = diags
	for _, diag := range diags {
		p.logDiagnostic(log, diag)
	}
	if analysis == nil {
		return res
	}
	if analysis.Ancestor != nil {
		res.Ancestor = analysis.Ancestor.QualifiedName
	}
	res.Attributes = len(analysis.Attributes)

	if err := p.emitter.Emit(p.filer, d, analysis.Ancestor, analysis.Attributes); err != nil {
		diag := asDiagnostic(err, d)
		res.Diagnostics = append(res.Diagnostics, diag)
		p.logDiagnostic(log, diag)
		return res
	}
	res.Generated = true
	return res
}

// Analyze resolves a type without emitting it. A nil analysis means the type
// cannot be generated; the diagnostics say why.
func (p *Processor) Analyze(d *introspect.TypeDecl) (*Analysis, []errs.Diagnostic) {
	var diags []errs.Diagnostic

	ancestor, err := NearestPersistentAncestor(p.universe, d, p.opts.MaxSupertypeDepth)
	if err != nil {
		return nil, append(diags, asDiagnostic(err, d))
	}

	access, members := ResolveAccess(d)
	resolver := NewResolver(d)
	analysis := &Analysis{Type: d, Access: access, Ancestor: ancestor}
	failed := false
	for i := range members {
		m := &members[i]
		if !IsPersistentMember(m) {
			continue
		}
		attr, err := resolver.Resolve(m)
		if err != nil {
			diag := asDiagnostic(err, d)
			if p.opts.Strict {
				diag.Severity = errs.Error
				failed = true
			}
			diags = append(diags, diag)
		}
		analysis.Attributes = append(analysis.Attributes, attr)
	}
	if failed {
		return nil, diags
	}
	return analysis, diags
}

func (p *Processor) logDiagnostic(log *zap.Logger, d errs.Diagnostic) {
	fields := []zap.Field{
		zap.String("code", d.Code),
		zap.String("phase", d.Phase),
	}
	if d.Member != "" {
		fields = append(fields, zap.String("member", d.Member))
	}
	if d.IsError() {
		log.Error(d.Message, fields...)
	} else {
		log.Warn(d.Message, fields...)
	}
}

func asDiagnostic(err error, d *introspect.TypeDecl) errs.Diagnostic {
	var diag errs.Diagnostic
	if stderrors.As(err, &diag) {
		return diag
	}
	return errs.New(errs.PhaseResolve, errs.ErrUnresolvedType, err.Error(), errs.Error).
		ForType(d.QualifiedName).
		WithCause(err)
}
