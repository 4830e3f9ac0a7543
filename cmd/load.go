package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/dataset"
	"github.com/kvu01124/earthquake-resilience-dashboard/internal/geojson"
)

var (
	loadInput     string
	loadShapefile string
	loadOutput    string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load, reproject and summarize a dataset",
	Long:  "Fetches a GeoJSON dataset (or reads a shapefile), reprojects it into WGS84, prints a summary, and optionally writes the reprojected collection to a file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		loader := dataset.NewLoader(nil)

		var ds *geojson.Dataset
		var err error
		switch {
		case loadShapefile != "":
			ds, err = loader.LoadShapefile(ctx, loadShapefile)
		case strings.HasPrefix(loadInput, "http://"), strings.HasPrefix(loadInput, "https://"):
			ds, err = loader.Load(ctx, loadInput)
		case loadInput != "":
			ds, err = loader.LoadFile(ctx, loadInput)
		default:
			ds, err = loader.LoadFile(ctx, cfg.Dataset.Path)
		}
		if err != nil {
			return eris.Wrap(err, "load dataset")
		}

		fmt.Printf("CRS:      %s\n", ds.CRS.Name())
		fmt.Printf("Features: %d\n", len(ds.Features))
		if bounds, ok := dataset.Bounds(ds); ok {
			fmt.Printf("Bounds:   lon [%.4f, %.4f]  lat [%.4f, %.4f]\n",
				bounds.MinLon, bounds.MaxLon, bounds.MinLat, bounds.MaxLat)
		}

		if loadOutput != "" {
			data, err := json.MarshalIndent(ds, "", "  ")
			if err != nil {
				return eris.Wrap(err, "encode dataset")
			}
			if err := os.WriteFile(loadOutput, data, 0o644); err != nil {
				return eris.Wrap(err, "write dataset")
			}
			zap.L().Info("wrote reprojected dataset",
				zap.String("path", loadOutput),
				zap.Int("features", len(ds.Features)))
		}

		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadInput, "input", "", "GeoJSON URL or file path (default from config)")
	loadCmd.Flags().StringVar(&loadShapefile, "shapefile", "", "shapefile path (overrides --input)")
	loadCmd.Flags().StringVar(&loadOutput, "output", "", "write the reprojected GeoJSON to this file")
	rootCmd.AddCommand(loadCmd)
}
