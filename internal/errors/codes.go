package errors

// Diagnostic codes organized by phase
// M001-M099: member resolution
// M100-M199: supertype chain
// M200-M299: emission
// M300-M399: type source loading

const (
	// Member resolution (M001-M099)
	ErrRawContainer   = "M001"
	ErrUnresolvedType = "M002"

	// Supertype chain (M100-M199)
	ErrSupertypeCycle = "M100"
	ErrSupertypeDepth = "M101"

	// Emission (M200-M299)
	ErrEmissionOpen  = "M200"
	ErrEmissionWrite = "M201"
	ErrEmissionClose = "M202"

	// Type sources (M300-M399)
	ErrSourceLoad      = "M300"
	ErrDuplicateType   = "M301"
	ErrInvalidTypeExpr = "M302"
)

// Phases
const (
	PhaseLoad      = "load"
	PhaseResolve   = "resolve"
	PhaseSupertype = "supertype"
	PhaseEmit      = "emit"
)

// Title returns a short heading for a diagnostic code
func Title(code string) string {
	switch code {
	case ErrRawContainer:
		return "raw container"
	case ErrUnresolvedType:
		return "unresolved type"
	case ErrSupertypeCycle:
		return "supertype cycle"
	case ErrSupertypeDepth:
		return "supertype depth"
	case ErrEmissionOpen, ErrEmissionWrite, ErrEmissionClose:
		return "emission failed"
	case ErrSourceLoad:
		return "source load"
	case ErrDuplicateType:
		return "duplicate type"
	case ErrInvalidTypeExpr:
		return "invalid type expression"
	default:
		return "diagnostic"
	}
}
