package main

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/djnsty23/claude-auto-dev/pkg/project"
)

func generateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	var v T

	return reflector.Reflect(v)
}

var schemas = map[string]func() *jsonschema.Schema{
	"manifest": generateSchema[project.ManifestDocument],
	"settings": generateSchema[project.SettingsDocument],
}

var schemaCmd = &cobra.Command{
	Use:       "schema <manifest|settings>",
	Short:     "Print the JSON Schema of a project document",
	Long:      `Print the JSON Schema of skills/manifest.json or of the platform settings files.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"manifest", "settings"},
	RunE: func(cmd *cobra.Command, args []string) error {
		generate, ok := schemas[args[0]]
		if !ok {
			return errors.Errorf("unknown document %q", args[0])
		}

		out, err := json.MarshalIndent(generate(), "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal schema")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}
