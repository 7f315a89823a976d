// cmd/export.go - Boundary export command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielsivyer4567/parcelmeter/internal/exchange"
	"github.com/danielsivyer4567/parcelmeter/internal/geom"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a boundary to the ring exchange format",
	Long: `Convert a boundary file to the ring exchange format: a JSON array of
ring-coordinate arrays (Array<Array<[lon, lat]>>). The output re-imports
cleanly with the measure command.

Examples:
  parcelmeter export --input parcel.geojson --output rings.json`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("input", "i", "", "boundary file to export")
	exportCmd.Flags().StringP("output", "o", "", "output ring file")

	exportCmd.MarkFlagRequired("input")
	exportCmd.MarkFlagRequired("output")
}

func runExport(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")

	geometry, err := exchange.ReadBoundary(input)
	if err != nil {
		return fmt.Errorf("failed to read boundary: %w", err)
	}

	rings, err := geom.Rings(geometry)
	if err != nil {
		return err
	}

	if err := exchange.WriteRings(output, rings); err != nil {
		return err
	}

	return nil
}
