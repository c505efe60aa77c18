package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/mirage/internal/feature"
	"github.com/kozaktomas/mirage/internal/filenamer"
	"github.com/kozaktomas/mirage/internal/params"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Convert between processing tokens and feature names",
}

var tokenDecodeCmd = &cobra.Command{
	Use:   "decode <token>",
	Short: "List the features of a processing token",
	Long: `List the catalog features encoded in a base-36 processing token.

Examples:
  mirage token decode y1u6j5s
  mirage token decode --output json y1u6j5s`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenDecode,
}

var tokenEncodeCmd = &cobra.Command{
	Use:   "encode <feature,feature,...>",
	Short: "Encode comma separated feature names into a processing token",
	Long: `Encode comma separated feature names into a processing token. Parametric
names such as "gsd 50" or "os30" go into the variable token instead.

Examples:
  mirage token encode "ortho,bands-rgb,format-geotiff"
  mirage token encode "ortho,gsd 50,ossim-sharpen 30"`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenEncode,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenDecodeCmd)
	tokenCmd.AddCommand(tokenEncodeCmd)

	tokenCmd.PersistentFlags().String("catalog-version", "", "Catalog version (default version when empty)")
	tokenCmd.PersistentFlags().StringP("output", "o", outputText, "Output format: text, json or yaml")
}

// tokenView is the structured output of the token commands.
type tokenView struct {
	Version       string             `json:"version" yaml:"version"`
	Token         string             `json:"token" yaml:"token"`
	VariableToken string             `json:"variable_token,omitempty" yaml:"variable_token,omitempty"`
	Features      []*feature.Feature `json:"features" yaml:"features"`
}

func newTokenView(p *params.Params) tokenView {
	features := p.Features()
	if features == nil {
		features = []*feature.Feature{}
	}
	return tokenView{
		Version:       p.Version(),
		Token:         filenamer.ProcessingToken(p),
		VariableToken: filenamer.VariableToken(p),
		Features:      features,
	}
}

func runTokenDecode(cmd *cobra.Command, args []string) error {
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
	p := params.FromToken(c, args[0])
	if p.IsInvalid() {
		return errors.New("malformed processing token: " + args[0])
	}
	if err := p.CheckKnown(); err != nil {
		return err
	}
	return printTokenView(output, newTokenView(p))
}

func runTokenEncode(cmd *cobra.Command, args []string) error {
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
	p, err := params.FromFeatureNames(c, args[0])
	if err != nil {
		return err
	}
	return printTokenView(output, newTokenView(p))
}

func printTokenView(output string, view tokenView) error {
	if output != outputText {
		return writeStructured(output, view)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Token:\t%s\n", view.Token)
	if view.VariableToken != "" {
		fmt.Fprintf(w, "Variable:\t%s\n", view.VariableToken)
	}
	names := make([]string, len(view.Features))
	for i, f := range view.Features {
		names[i] = f.Name
	}
	fmt.Fprintf(w, "Features:\t%s\n", strings.Join(names, ", "))
	w.Flush()
	return nil
}
