package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kvu01124/earthquake-resilience-dashboard/internal/metric"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List the available metrics and legend buckets",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Metrics:")
		for _, d := range metric.Registry() {
			marker := " "
			if d.ID == metric.DefaultID() {
				marker = "*"
			}
			fmt.Printf("  %s %-45s %s\n", marker, d.ID, d.Label)
		}

		fmt.Println("\nLegend buckets:")
		for _, b := range metric.LegendBuckets() {
			fmt.Printf("  %s  %s\n", b.Color, b.Label)
		}
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
