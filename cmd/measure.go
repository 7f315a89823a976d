// cmd/measure.go - Boundary measurement command
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"github.com/danielsivyer4567/parcelmeter/internal/exchange"
	"github.com/danielsivyer4567/parcelmeter/internal/geom"
	"github.com/danielsivyer4567/parcelmeter/internal/selection"
)

// measureCmd represents the measure command
var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Measure a parcel boundary from a file",
	Long: `Measure a polygon boundary: per-edge great-circle lengths, total
perimeter, and area.

The input may be a GeoJSON feature, feature collection, or geometry, or a
ring exchange file (a JSON array of [lon, lat] coordinate arrays).

Examples:
  # Plain text measurements
  parcelmeter measure --input parcel.geojson

  # JSON output with front boundary identification
  parcelmeter measure --input parcel.geojson --front --json

  # Re-export the boundary rings alongside the measurements
  parcelmeter measure --input parcel.geojson --export rings.json`,
	RunE: runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)

	measureCmd.Flags().StringP("input", "i", "", "boundary file to measure")
	measureCmd.Flags().Bool("front", false, "identify the likely street-facing edge")
	measureCmd.Flags().Bool("json", false, "emit the summary as JSON")
	measureCmd.Flags().String("export", "", "also export the boundary rings to this file")

	measureCmd.MarkFlagRequired("input")
}

// measureOutput is the JSON shape of a measure run
type measureOutput struct {
	Summary *geom.BoundarySummary `json:"summary"`
	Front   *geom.FrontBoundary   `json:"front,omitempty"`
}

func runMeasure(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	front, _ := cmd.Flags().GetBool("front")
	asJSON, _ := cmd.Flags().GetBool("json")
	exportPath, _ := cmd.Flags().GetString("export")

	geometry, err := exchange.ReadBoundary(input)
	if err != nil {
		return fmt.Errorf("failed to read boundary: %w", err)
	}

	summary, _, err := geom.Summarize(geometry)
	if err != nil {
		return fmt.Errorf("failed to measure boundary: %w", err)
	}

	var frontResult *geom.FrontBoundary
	if front {
		rings, err := geom.Rings(geometry)
		if err != nil {
			return err
		}

		// Front identification works on the first ring's edges
		firstRingEdges := len(rings[0]) - 1
		if firstRingEdges < 1 {
			return fmt.Errorf("boundary first ring has no edges")
		}
		lengths := summary.EdgeLengths()[:firstRingEdges]
		coords := []orb.Point(rings[0][:firstRingEdges])

		result := geom.IdentifyFrontBoundary(lengths, coords)
		frontResult = &result
	}

	if exportPath != "" {
		rings, err := geom.Rings(geometry)
		if err != nil {
			return err
		}
		if err := exchange.WriteRings(exportPath, rings); err != nil {
			return err
		}
	}

	if asJSON {
		out := measureOutput{Summary: summary, Front: frontResult}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	sink := selection.NewTextSink(os.Stdout)
	sink.Display(summary)

	if frontResult != nil {
		fmt.Printf("Front: side %d (%.0f%% confidence, %s)\n",
			frontResult.Index+1, frontResult.Confidence*100, frontResult.Reason)
	}

	return nil
}
