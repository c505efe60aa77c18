package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/mirage/internal/imageref"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q, expected text, json or yaml", format)
}

// writeStructured prints data as JSON or YAML.
func writeStructured(format string, data any) error {
	if format == outputYAML {
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("encoding YAML output: %w", err)
		}
		return encoder.Close()
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}

var typeColors = map[imageref.Type]*color.Color{
	imageref.TypeOriginal:         color.New(color.FgGreen),
	imageref.TypeProcessed:        color.New(color.FgCyan),
	imageref.TypeCropped:          color.New(color.FgBlue),
	imageref.TypeThumbnail:        color.New(color.FgMagenta),
	imageref.TypeThumbnailOverlay: color.New(color.FgMagenta, color.Bold),
	imageref.TypeInvalid:          color.New(color.FgRed, color.Bold),
}

// coloredType renders t in its terminal color. Color is dropped
// automatically when stdout is not a terminal.
func coloredType(t imageref.Type) string {
	c, ok := typeColors[t]
	if !ok {
		return t.String()
	}
	return c.Sprint(t.String())
}
