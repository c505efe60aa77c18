package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/mirage/internal/feature"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "List the features of the catalog",
	Long: `List every catalog feature followed by the gsd, sharpen and brightness
placeholders, or only the features of one group.

Examples:
  mirage features
  mirage features --group ortho
  mirage features --group adjustments --output yaml`,
	Args: cobra.NoArgs,
	RunE: runFeatures,
}

func init() {
	rootCmd.AddCommand(featuresCmd)

	featuresCmd.Flags().String("group", "", "Only list features of this group")
	featuresCmd.Flags().String("catalog-version", "", "Catalog version (default version when empty)")
	featuresCmd.Flags().StringP("output", "o", outputText, "Output format: text, json or yaml")
}

func runFeatures(cmd *cobra.Command, args []string) error {
	output := mustGetString(cmd, "output")
	if err := validateOutput(output); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	c, err := a.catalogs.Get(mustGetString(cmd, "catalog-version"))
	if err != nil {
		return err
	}

	var features []*feature.Feature
	if name := mustGetString(cmd, "group"); name != "" {
		group, err := feature.ParseGroup(name)
		if err != nil {
			return err
		}
		features = c.GroupFeatures(group)
	} else {
		features = append(c.Features(), c.Placeholders()...)
	}

	if output != outputText {
		return writeStructured(output, features)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGROUP\tFEATURE\tVALUE\tDESCRIPTION")
	fmt.Fprintln(w, "--\t-----\t-------\t-----\t-----------")
	for _, f := range features {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", f.ID, f.Group, f.Name, f.Value, f.Description)
	}
	w.Flush()
	fmt.Printf("\nTotal: %d features (catalog version %s)\n", len(features), c.Version())
	return nil
}
