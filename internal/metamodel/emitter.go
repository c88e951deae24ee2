package metamodel

import (
	"bytes"
	"fmt"
	"io"

	errs "github.com/conduit-lang/metagen/internal/errors"
	"github.com/conduit-lang/metagen/internal/introspect"
	"github.com/conduit-lang/metagen/internal/sink"
)

const (
	// ClassSuffix is appended to a persistent class name to name its metamodel class
	ClassSuffix = "_"

	// DefaultMetamodelPackage holds StaticMetamodel and the attribute types
	DefaultMetamodelPackage = "javax.persistence.metamodel"

	codeIndent = "    "
)

// MetamodelName returns the qualified name of the metamodel class for a type
func MetamodelName(d *introspect.TypeDecl) string {
	return d.QualifiedName + ClassSuffix
}

// Emitter renders metamodel classes and writes them to a filer
type Emitter struct {
	metamodelPackage string
}

// NewEmitter creates an emitter importing from the given metamodel package
func NewEmitter(metamodelPackage string) *Emitter {
	if metamodelPackage == "" {
		metamodelPackage = DefaultMetamodelPackage
	}
	return &Emitter{metamodelPackage: metamodelPackage}
}

// Render produces the source text of the metamodel class for d. ancestor may be nil.
func (e *Emitter) Render(d, ancestor *introspect.TypeDecl, attrs []ResolvedAttribute) []byte {
	var buf bytes.Buffer

	if d.Package != "" {
		fmt.Fprintf(&buf, "package %s;\n\n", d.Package)
	}
	fmt.Fprintf(&buf, "import %s.*;\n\n", e.metamodelPackage)
	fmt.Fprintf(&buf, "@StaticMetamodel(%s.class)\n", d.SimpleName)
	buf.WriteString("public class " + d.SimpleName + ClassSuffix)
	if ancestor != nil {
		buf.WriteString(" extends " + superclassName(d, ancestor))
	}
	buf.WriteString("\n{\n")

	for _, attr := range attrs {
		fmt.Fprintf(&buf, "%spublic static volatile %s %s;\n", codeIndent, attr.DescriptorType(), attr.Name)
	}

	buf.WriteString("}\n")
	return buf.Bytes()
}

// superclassName refers to the ancestor's metamodel class by simple name when
// it shares the package, by qualified name otherwise
func superclassName(d, ancestor *introspect.TypeDecl) string {
	if ancestor.Package == d.Package {
		return ancestor.SimpleName + ClassSuffix
	}
	return MetamodelName(ancestor)
}

// Emit renders the class and writes it as one unit. The unit is closed whether
// or not the write succeeds.
func (e *Emitter) Emit(filer sink.Filer, d, ancestor *introspect.TypeDecl, attrs []ResolvedAttribute) (err error) {
	name := MetamodelName(d)
	w, err := filer.Create(name)
	if err != nil {
		return emissionError(d, errs.ErrEmissionOpen, err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = emissionError(d, errs.ErrEmissionClose, closeErr)
		}
	}()

	if _, err := io.Copy(w, bytes.NewReader(e.Render(d, ancestor, attrs))); err != nil {
		return emissionError(d, errs.ErrEmissionWrite, err)
	}
	return nil
}

func emissionError(d *introspect.TypeDecl, code string, cause error) error {
	return errs.New(errs.PhaseEmit, code, fmt.Sprintf("writing %s: %v", MetamodelName(d), cause), errs.Error).
		ForType(d.QualifiedName).
		WithCause(cause)
}
