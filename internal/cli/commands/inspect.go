package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/metagen/internal/cli/ui"
	errs "github.com/conduit-lang/metagen/internal/errors"
	"github.com/conduit-lang/metagen/internal/introspect"
	"github.com/conduit-lang/metagen/internal/metamodel"
	"github.com/conduit-lang/metagen/internal/sink"
)

// TypeSummary is one row of the persistent type listing
type TypeSummary struct {
	Type        string            `json:"type"`
	Kind        string            `json:"kind"`
	Metamodel   string            `json:"metamodel"`
	Extends     string            `json:"extends,omitempty"`
	Access      string            `json:"access"`
	Attributes  []AttributeInfo   `json:"attributes"`
	Diagnostics []errs.Diagnostic `json:"diagnostics,omitempty"`
	Generatable bool              `json:"generatable"`
}

// AttributeInfo is one resolved attribute of a persistent type
type AttributeInfo struct {
	Name       string `json:"name"`
	Descriptor string `json:"descriptor"`
	Key        string `json:"key,omitempty"`
	Element    string `json:"element"`
}

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	var (
		asJSON  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [type]",
		Short: "Show persistent types and their resolved attributes",
		Long: `Resolve the configured type sources the way generate does, without
writing anything.

With no argument, list every persistent type. With a type name, show the
attributes its metamodel class would declare. The name may be qualified
or simple when the simple name is unambiguous.`,
		Example: `  # List persistent types
  metagen inspect

  # Show the attributes of one type
  metagen inspect com.acme.Person
  metagen inspect Person

  # Machine-readable output
  metagen inspect Person --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, verbose, nil)
			if err != nil {
				return err
			}
			defer s.close()

			snapshot, err := s.load()
			if err != nil {
				s.reportLoadError(err)
				return fmt.Errorf("failed to load type sources")
			}

			summaries := summarize(snapshot, s.processor(snapshot, &sink.DiscardFiler{}))
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				if asJSON {
					return writeJSON(out, summaries)
				}
				renderTypeList(out, summaries, s.noColor)
				return nil
			}

			summary, err := findType(summaries, args[0])
			if err != nil {
				fmt.Fprint(s.stderr, ui.TypeNotFoundError(args[0], typeSuggestions(summaries, args[0]), s.noColor))
				return err
			}
			if asJSON {
				return writeJSON(out, summary)
			}
			renderType(out, summary, s.noColor)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every loaded source")

	return cmd
}

// summarize analyzes every persistent root type in declaration order
func summarize(u introspect.Universe, p *metamodel.Processor) []TypeSummary {
	var summaries []TypeSummary
	for _, d := range u.Roots() {
		kind := introspect.PersistenceKind(d)
		if kind == "" {
			continue
		}

		summary := TypeSummary{
			Type:       d.QualifiedName,
			Kind:       kind,
			Metamodel:  metamodel.MetamodelName(d),
			Attributes: []AttributeInfo{},
		}
		analysis, diags := p.Analyze(d)
		summary.Diagnostics = diags
		if analysis != nil {
			summary.Generatable = true
			summary.Access = analysis.Access.String()
			if analysis.Ancestor != nil {
				summary.Extends = analysis.Ancestor.QualifiedName
			}
			for _, attr := range analysis.Attributes {
				summary.Attributes = append(summary.Attributes, AttributeInfo{
					Name:       attr.Name,
					Descriptor: attr.Category.Descriptor(),
					Key:        attr.Key,
					Element:    attr.Element,
				})
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// findType matches a qualified name, or a simple name that only one type has
func findType(summaries []TypeSummary, name string) (*TypeSummary, error) {
	var matches []*TypeSummary
	for i := range summaries {
		s := &summaries[i]
		if s.Type == name {
			return s, nil
		}
		if introspect.SimpleName(s.Type) == name {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no persistent type named %s", name)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Type
		}
		return nil, fmt.Errorf("%s is ambiguous: %s", name, strings.Join(names, ", "))
	}
}

func typeSuggestions(summaries []TypeSummary, name string) []string {
	names := make([]string, len(summaries))
	for i, s := range summaries {
		names[i] = s.Type
	}
	return ui.FindSimilar(name, names)
}

func renderTypeList(w io.Writer, summaries []TypeSummary, noColor bool) {
	if len(summaries) == 0 {
		fmt.Fprint(w, ui.Warning("No persistent types found in the configured sources", noColor))
		return
	}

	ui.Header(w, fmt.Sprintf("Persistent types (%d)", len(summaries)), noColor)
	table := ui.NewTable(w, []string{"Type", "Kind", "Extends", "Attributes", "Status"}, &ui.TableOptions{NoColor: noColor})
	table.ColorColumn(4, color.FgYellow)
	for _, s := range summaries {
		extends := s.Extends
		if extends == "" {
			extends = "-"
		}
		table.AddRow(s.Type, s.Kind, extends, strconv.Itoa(len(s.Attributes)), status(s))
	}
	table.Render()
}

func renderType(w io.Writer, s *TypeSummary, noColor bool) {
	ui.Header(w, s.Type, noColor)

	kv := ui.NewKeyValueTable(w, noColor)
	kv.AddRow("Kind", s.Kind)
	kv.AddRow("Metamodel", s.Metamodel)
	if s.Extends != "" {
		kv.AddRow("Extends", s.Extends+"_")
	}
	if s.Access != "" {
		kv.AddRow("Access", s.Access)
	}
	kv.AddRow("Status", status(*s))
	kv.Render()

	if len(s.Attributes) > 0 {
		fmt.Fprintln(w)
		table := ui.NewTable(w, []string{"Attribute", "Descriptor", "Key", "Element"}, &ui.TableOptions{NoColor: noColor})
		for _, attr := range s.Attributes {
			key := attr.Key
			if key == "" {
				key = "-"
			}
			table.AddRow(attr.Name, attr.Descriptor, key, attr.Element)
		}
		table.Render()
	}

	for _, d := range s.Diagnostics {
		fmt.Fprintln(w)
		fmt.Fprint(w, ui.DiagnosticMessage(d, noColor))
	}
}

func status(s TypeSummary) string {
	switch {
	case !s.Generatable:
		return "skipped"
	case len(s.Diagnostics) > 0:
		return "warnings"
	default:
		return "ok"
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
