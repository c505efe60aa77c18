package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/mirage/internal/filenamer"
)

var buildCmd = &cobra.Command{
	Use:   "build <catId>",
	Short: "Generate a filename from a catalog id and processing parameters",
	Long: `Generate the filename of an image from its catalog id, the catalog features
applied to it, and optional gsd, sharpen, brightness and crop values.

Examples:
  # Orthorectified GeoTIFF at 50 cm
  mirage build 104001004E9B7800 --feature ortho --feature format-geotiff --gsd 0.5 --ext tif

  # Cropped and sharpened
  mirage build 104001004E9B7800 --feature ortho --sharpen 30 --crop 0,0,512,512 --ext tif`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringArrayP("feature", "f", nil, "Catalog feature name (repeatable)")
	buildCmd.Flags().Float64("gsd", 0, "Ground sample distance in meters")
	buildCmd.Flags().Int("sharpen", 0, "Sharpen percentage (0-100)")
	buildCmd.Flags().Float64("brightness", 0, "Brightness adjustment (-1.0 to 1.0)")
	buildCmd.Flags().String("crop-hash", "", "Crop hash to append")
	buildCmd.Flags().String("crop", "", "Crop rectangle x,y,w,h to hash")
	buildCmd.Flags().String("ext", "", "File extension")
	buildCmd.Flags().String("catalog-version", "", "Catalog version (default version when empty)")
	buildCmd.Flags().StringP("output", "o", outputText, "Output format: text, json or yaml")

	buildCmd.MarkFlagsMutuallyExclusive("crop", "crop-hash")
}

func runBuild(cmd *cobra.Command, args []string) error {
	output := mustGetString(cmd, "output")
	if err := validateOutput(output); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	req := filenamer.BuildRequest{
		Version:    mustGetString(cmd, "catalog-version"),
		CatID:      args[0],
		Features:   mustGetStringArray(cmd, "feature"),
		Gsd:        optionalFloat64(cmd, "gsd"),
		Sharpen:    optionalInt(cmd, "sharpen"),
		Brightness: optionalFloat64(cmd, "brightness"),
		CropHash:   mustGetString(cmd, "crop-hash"),
		Crop:       mustGetString(cmd, "crop"),
		Ext:        mustGetString(cmd, "ext"),
	}

	ref, name, err := a.namers.Build(req)
	if err != nil {
		return err
	}

	if output == outputText {
		fmt.Println(name)
		return nil
	}
	n, err := a.namers.Get(ref.Version())
	if err != nil {
		return err
	}
	return writeStructured(output, filenamer.Describe(n, ref))
}
