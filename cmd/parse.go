package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/mirage/internal/filenamer"
)

var parseCmd = &cobra.Command{
	Use:   "parse <filename>...",
	Short: "Decode the processing parameters carried by filenames",
	Long: `Decode one or more filenames into their catalog id, image type, active
features and parametric values.

Examples:
  # Inspect a processed image
  mirage parse 104001004E9B7800_dcId1_y1u6j5s_gsd50os30.tif

  # Machine readable output
  mirage parse --output yaml /data/*.tif

  # Print the descriptive name only
  mirage parse --descriptive 104001004E9B7800_dcId1_y1u6j5s.tif`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("output", "o", outputText, "Output format: text, json or yaml")
	parseCmd.Flags().Bool("descriptive", false, "Print only the descriptive name of each file")
}

func runParse(cmd *cobra.Command, args []string) error {
	output := mustGetString(cmd, "output")
	descriptive := mustGetBool(cmd, "descriptive")
	if err := validateOutput(output); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	descriptions := make([]filenamer.Description, 0, len(args))
	for _, arg := range args {
		n, err := a.namers.ForFilename(arg)
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		ref, err := n.Parse(arg)
		if err != nil {
			return err
		}
		descriptions = append(descriptions, filenamer.Describe(n, ref))
	}

	if descriptive {
		for _, d := range descriptions {
			fmt.Println(d.Descriptive)
		}
		return nil
	}
	if output != outputText {
		if len(descriptions) == 1 {
			return writeStructured(output, descriptions[0])
		}
		return writeStructured(output, descriptions)
	}

	for i, d := range descriptions {
		if i > 0 {
			fmt.Println()
		}
		printDescription(d)
	}
	return nil
}

func printDescription(d filenamer.Description) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "File:\t%s\n", d.Filename)
	fmt.Fprintf(w, "Type:\t%s\t%s\n", coloredType(d.Type), d.TypeDescription)
	fmt.Fprintf(w, "Catalog ID:\t%s\n", d.CatID)
	fmt.Fprintf(w, "Version:\t%s\n", d.Version)
	if d.ProcessingToken != "" {
		fmt.Fprintf(w, "Token:\t%s\n", d.ProcessingToken)
	}
	if d.GsdMeters != nil {
		fmt.Fprintf(w, "GSD:\t%g m\n", *d.GsdMeters)
	}
	if d.SharpenPercent != nil {
		fmt.Fprintf(w, "Sharpen:\t%d%%\n", *d.SharpenPercent)
	}
	if d.Brightness != nil {
		fmt.Fprintf(w, "Brightness:\t%+g\n", *d.Brightness)
	}
	if d.CroppedHash != "" {
		fmt.Fprintf(w, "Crop hash:\t%s\n", d.CroppedHash)
	}
	features := "-"
	if len(d.Features) > 0 {
		features = strings.Join(d.Features, ", ")
	}
	fmt.Fprintf(w, "Features:\t%s\n", features)
	if len(d.UnknownIDs) > 0 {
		fmt.Fprintf(w, "Unknown IDs:\t%v\n", d.UnknownIDs)
	}
	fmt.Fprintf(w, "Descriptive:\t%s\n", d.Descriptive)
	w.Flush()
}
