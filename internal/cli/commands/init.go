package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/metagen/internal/cli/config"
	"github.com/conduit-lang/metagen/internal/cli/ui"
)

// starterConfig is the metagen.yml written by init
type starterConfig struct {
	Sources           []string `yaml:"sources"`
	Format            string   `yaml:"format"`
	OutputDir         string   `yaml:"output_dir"`
	MetamodelPackage  string   `yaml:"metamodel_package"`
	Strict            bool     `yaml:"strict"`
	MaxSupertypeDepth int      `yaml:"max_supertype_depth"`
}

func defaultStarterConfig() starterConfig {
	return starterConfig{
		Sources:           []string{config.DefaultSource},
		Format:            config.DefaultFormat,
		OutputDir:         config.DefaultOutputDir,
		MetamodelPackage:  "javax",
		MaxSupertypeDepth: config.DefaultMaxSupertypeDepth,
	}
}

// Swapped in tests; survey needs a terminal
var askStarterConfig = surveyStarterConfig

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	var (
		interactive bool
		force       bool
		jakarta     bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter metagen.yml",
		Long: `Write a metagen.yml with default settings to the current directory.

Examples:
  metagen init
  metagen init --jakarta
  metagen init --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			nc := noColor(cmd)
			path := config.FileName + ".yml"

			if config.HasConfigFile() && !force {
				err := fmt.Errorf("a %s config already exists in this directory", config.FileName)
				fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error()+" (use --force to overwrite)", nc))
				return err
			}

			starter := defaultStarterConfig()
			if jakarta {
				starter.MetamodelPackage = "jakarta"
			}
			if interactive {
				var err error
				if starter, err = askStarterConfig(starter); err != nil {
					return err
				}
			}

			data, err := yaml.Marshal(starter)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			ui.WriteSuccess(cmd.OutOrStdout(), "Created "+path, nc)
			fmt.Fprintln(cmd.OutOrStdout(), "  Next: metagen generate")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for each setting")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")
	cmd.Flags().BoolVar(&jakarta, "jakarta", false, "Import the jakarta.persistence metamodel API")

	return cmd
}

func surveyStarterConfig(defaults starterConfig) (starterConfig, error) {
	answers := struct {
		Sources string
		Format  string
		Output  string
		Package string
		Strict  bool
	}{}

	questions := []*survey.Question{
		{
			Name: "sources",
			Prompt: &survey.Input{
				Message: "Source directories or files (comma separated):",
				Default: strings.Join(defaults.Sources, ","),
			},
			Validate: survey.Required,
		},
		{
			Name: "format",
			Prompt: &survey.Select{
				Message: "Source format:",
				Options: []string{"auto", "java", "manifest"},
				Default: defaults.Format,
			},
		},
		{
			Name: "output",
			Prompt: &survey.Input{
				Message: "Output directory:",
				Default: defaults.OutputDir,
			},
			Validate: survey.Required,
		},
		{
			Name: "package",
			Prompt: &survey.Select{
				Message: "Persistence API:",
				Options: []string{"javax", "jakarta"},
				Default: defaults.MetamodelPackage,
			},
		},
		{
			Name: "strict",
			Prompt: &survey.Confirm{
				Message: "Treat raw collections as errors?",
				Default: defaults.Strict,
			},
		},
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return defaults, err
	}

	result := defaults
	result.Sources = splitList(answers.Sources)
	result.Format = answers.Format
	result.OutputDir = answers.Output
	result.MetamodelPackage = answers.Package
	result.Strict = answers.Strict
	return result, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
