// cmd/prefetch.go - Tile prefetch command
package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	pb "gopkg.in/cheggaaa/pb.v1"

	"github.com/danielsivyer4567/parcelmeter/internal/config"
	"github.com/danielsivyer4567/parcelmeter/internal/prefetch"
	"github.com/danielsivyer4567/parcelmeter/internal/store"
	"github.com/danielsivyer4567/parcelmeter/internal/tile"

	"github.com/paulmach/orb"
)

// prefetchCmd represents the prefetch command
var prefetchCmd = &cobra.Command{
	Use:   "prefetch",
	Short: "Prefetch GeoJSON tiles into a local store",
	Long: `Prefetch every tile covering a bounding box across a zoom range and
store the raw tile bodies in a local SQLite store. A store-backed viewport
loader can then run entirely offline.

Examples:
  parcelmeter prefetch --base-url "https://example.com/tiles" \
      --bbox "153.39,-28.02,153.42,-27.99" --min-zoom 14 --max-zoom 16 \
      --store tiles.db --concurrency 8`,
	RunE: runPrefetch,
}

func init() {
	rootCmd.AddCommand(prefetchCmd)

	prefetchCmd.Flags().String("bbox", "", "bounding box as \"west,south,east,north\"")
	prefetchCmd.Flags().Int("min-zoom", 14, "minimum zoom level")
	prefetchCmd.Flags().Int("max-zoom", 16, "maximum zoom level")
	prefetchCmd.Flags().Int("concurrency", 4, "number of concurrent tile fetches")
	prefetchCmd.Flags().Bool("progress", true, "show a progress bar")

	prefetchCmd.MarkFlagRequired("bbox")
}

// barReporter adapts a terminal progress bar to the prefetch reporter
type barReporter struct {
	bar *pb.ProgressBar
}

func (r *barReporter) Start(total int64) {
	r.bar = pb.New64(total)
	r.bar.Start()
}

func (r *barReporter) Increment() {
	r.bar.Increment()
}

func (r *barReporter) Finish() {
	r.bar.Finish()
}

func runPrefetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Server.BaseURL == "" {
		return fmt.Errorf("--base-url is required for prefetching")
	}
	if cfg.Store.Path == "" {
		return fmt.Errorf("--store is required for prefetching")
	}

	bboxArg, _ := cmd.Flags().GetString("bbox")
	minZoom, _ := cmd.Flags().GetInt("min-zoom")
	maxZoom, _ := cmd.Flags().GetInt("max-zoom")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	progress, _ := cmd.Flags().GetBool("progress")

	bound, err := parseBBox(bboxArg)
	if err != nil {
		return err
	}

	if minZoom > maxZoom {
		return fmt.Errorf("min-zoom (%d) cannot be greater than max-zoom (%d)", minZoom, maxZoom)
	}

	// Build the request list across the zoom range
	var requests []*tile.Request
	for z := minZoom; z <= maxZoom; z++ {
		rng := tile.RangeFromBound(bound, float64(z))
		for _, key := range rng.Keys() {
			requests = append(requests, tile.NewRequest(key, cfg.Server.BaseURL))
		}
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	var reporter prefetch.ProgressReporter
	if progress {
		reporter = &barReporter{}
	}

	fetcher := tile.NewHTTPFetcher(cfg)
	processor := prefetch.NewProcessor(fetcher, st, concurrency, reporter)

	stats, err := processor.Run(context.Background(), requests)
	if err != nil {
		return fmt.Errorf("prefetch aborted: %w", err)
	}

	log.Infof("prefetched %d/%d tiles (%d failed, %d empty) in %s",
		stats.FetchedTiles, stats.TotalTiles, stats.FailedTiles, stats.EmptyTiles, stats.Duration())

	return nil
}

// parseBBox parses a "west,south,east,north" bounding box argument
func parseBBox(arg string) (orb.Bound, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("bbox must be \"west,south,east,north\", got %q", arg)
	}

	values := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("invalid bbox coordinate %q: %w", part, err)
		}
		values[i] = v
	}

	bound := orb.Bound{
		Min: orb.Point{values[0], values[1]},
		Max: orb.Point{values[2], values[3]},
	}

	if bound.Min[0] >= bound.Max[0] || bound.Min[1] >= bound.Max[1] {
		return orb.Bound{}, fmt.Errorf("bbox is empty: %q", arg)
	}

	return bound, nil
}
