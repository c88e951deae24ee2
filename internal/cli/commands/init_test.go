package commands

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/metagen/internal/cli/config"
)

func TestInit(t *testing.T) {
	chdirTemp(t)

	stdout, _, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Created metagen.yml")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{config.DefaultSource}, cfg.Sources)
	assert.Equal(t, config.DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, "javax.persistence.metamodel", cfg.MetamodelPackage)
	assert.Equal(t, config.DefaultMaxSupertypeDepth, cfg.MaxSupertypeDepth)
	assert.False(t, cfg.Strict)
}

func TestInitJakarta(t *testing.T) {
	chdirTemp(t)

	_, _, err := execute(t, "init", "--jakarta")
	require.NoError(t, err)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "jakarta.persistence.metamodel", cfg.MetamodelPackage)
}

func TestInitRefusesOverwrite(t *testing.T) {
	chdirTemp(t)
	writeFile(t, "metagen.yml", "format: java\n")

	_, stderr, err := execute(t, "init")
	require.Error(t, err)
	assert.Contains(t, stderr, "use --force to overwrite")

	data, err := os.ReadFile("metagen.yml")
	require.NoError(t, err)
	assert.Equal(t, "format: java\n", string(data))

	_, _, err = execute(t, "init", "--force")
	require.NoError(t, err)
	data, err = os.ReadFile("metagen.yml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "format: auto")
}

func TestInitInteractive(t *testing.T) {
	chdirTemp(t)

	saved := askStarterConfig
	t.Cleanup(func() { askStarterConfig = saved })

	var offered starterConfig
	askStarterConfig = func(defaults starterConfig) (starterConfig, error) {
		offered = defaults
		defaults.Sources = splitList(" model , src/main/java ,")
		defaults.Format = "manifest"
		defaults.MetamodelPackage = "jakarta"
		defaults.Strict = true
		return defaults, nil
	}

	_, _, err := execute(t, "init", "--interactive")
	require.NoError(t, err)
	assert.Equal(t, defaultStarterConfig(), offered)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"model", "src/main/java"}, cfg.Sources)
	assert.Equal(t, "manifest", cfg.Format)
	assert.Equal(t, "jakarta.persistence.metamodel", cfg.MetamodelPackage)
	assert.True(t, cfg.Strict)
}

func TestInitInteractiveCancelled(t *testing.T) {
	chdirTemp(t)

	saved := askStarterConfig
	t.Cleanup(func() { askStarterConfig = saved })
	askStarterConfig = func(defaults starterConfig) (starterConfig, error) {
		return defaults, errors.New("interrupt")
	}

	_, _, err := execute(t, "init", "-i")
	require.Error(t, err)
	assert.NoFileExists(t, "metagen.yml")
}
