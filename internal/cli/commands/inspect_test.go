package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/metagen/internal/cli/config"
	errs "github.com/conduit-lang/metagen/internal/errors"
)

func TestInspectList(t *testing.T) {
	project(t)

	stdout, _, err := execute(t, "inspect")
	require.NoError(t, err)

	expected := "" +
		"Persistent types (3)\n" +
		"────────────────────\n" +
		"Type             Kind              Extends         Attributes  Status\n" +
		"───────────────  ────────────────  ──────────────  ──────────  ────────\n" +
		"com.acme.Legacy  Entity            -               1           warnings\n" +
		"com.acme.Party   MappedSuperclass  -               1           ok\n" +
		"com.acme.Person  Entity            com.acme.Party  3           ok\n"
	assert.Equal(t, expected, stdout)
	assert.NoDirExists(t, config.DefaultOutputDir)
}

func TestInspectType(t *testing.T) {
	project(t)

	stdout, _, err := execute(t, "inspect", "Person")
	require.NoError(t, err)

	expected := "" +
		"com.acme.Person\n" +
		"───────────────\n" +
		"Kind:      Entity\n" +
		"Metamodel: com.acme.Person_\n" +
		"Extends:   com.acme.Party_\n" +
		"Access:    FIELD\n" +
		"Status:    ok\n" +
		"\n" +
		"Attribute  Descriptor         Key  Element\n" +
		"─────────  ─────────────────  ───  ────────────────\n" +
		"name       SingularAttribute  -    java.lang.String\n" +
		"tags       SetAttribute       -    java.lang.String\n" +
		"friends    ListAttribute      -    com.acme.Person\n"
	assert.Equal(t, expected, stdout)
}

func TestInspectTypeWithWarning(t *testing.T) {
	project(t)

	stdout, _, err := execute(t, "inspect", "com.acme.Legacy")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Status:    warnings\n")
	assert.Contains(t, stdout, "⚠️ RAW CONTAINER: M001 com.acme.Legacy.codes")
}

func TestInspectJSON(t *testing.T) {
	project(t)

	stdout, _, err := execute(t, "inspect", "Legacy", "--json")
	require.NoError(t, err)

	var summary TypeSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	assert.Equal(t, "com.acme.Legacy", summary.Type)
	assert.Equal(t, "com.acme.Legacy_", summary.Metamodel)
	assert.True(t, summary.Generatable)
	require.Len(t, summary.Attributes, 1)
	assert.Equal(t, AttributeInfo{Name: "codes", Descriptor: "SetAttribute", Element: "java.lang.Object"}, summary.Attributes[0])
	require.Len(t, summary.Diagnostics, 1)
	assert.Equal(t, errs.ErrRawContainer, summary.Diagnostics[0].Code)
}

func TestInspectListJSON(t *testing.T) {
	project(t)

	stdout, _, err := execute(t, "inspect", "--json")
	require.NoError(t, err)

	var summaries []TypeSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &summaries))
	require.Len(t, summaries, 3)
	assert.Equal(t, "com.acme.Person", summaries[2].Type)
	assert.Equal(t, "com.acme.Party", summaries[2].Extends)
}

func TestInspectUnknownType(t *testing.T) {
	project(t)

	_, stderr, err := execute(t, "inspect", "Persn")
	require.Error(t, err)

	assert.Contains(t, stderr, "TYPE NOT FOUND")
	assert.Contains(t, stderr, "Did you mean: com.acme.Person")
}

func TestInspectStrictSkips(t *testing.T) {
	project(t)
	writeFile(t, "metagen.yml", "sources: [src]\nstrict: true\n")

	stdout, _, err := execute(t, "inspect", "Legacy")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Status:    skipped\n")
	assert.NotContains(t, stdout, "Attribute  Descriptor")
}

func TestFindType(t *testing.T) {
	summaries := []TypeSummary{
		{Type: "com.acme.Person"},
		{Type: "com.acme.Order"},
		{Type: "com.acme.legacy.Order"},
	}

	found, err := findType(summaries, "Person")
	require.NoError(t, err)
	assert.Equal(t, "com.acme.Person", found.Type)

	found, err = findType(summaries, "com.acme.legacy.Order")
	require.NoError(t, err)
	assert.Equal(t, "com.acme.legacy.Order", found.Type)

	_, err = findType(summaries, "Order")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous: com.acme.Order, com.acme.legacy.Order")

	_, err = findType(summaries, "Invoice")
	assert.Error(t, err)
}
