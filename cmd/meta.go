package cmd

import (
	"encoding/json"
	"os"
	"reflect"

	"github.com/eventcast/eventcast/history"
	"github.com/eventcast/eventcast/player"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(metaCmd)
	metaCmd.AddCommand(metaSchemaCmd)
	metaSchemaCmd.Flags().BoolP("history", "H", false, "Generate the JSON Schema of saved listening records")
	metaSchemaCmd.SetOut(os.Stdout)
}

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Inspect the event metadata format",
}

// metaSchemaCmd prints the JSON schema of the metadata the player accepts.
var metaSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON Schema of event metadata",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			return t.Name()
		}

		var schema *jsonschema.Schema

		switch {
		case lo.Must(cmd.Flags().GetBool("history")):
			schema = reflector.Reflect(map[string]*history.SavedListen{})
		default:
			schema = reflector.Reflect(&player.EventMetaData{})
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}
