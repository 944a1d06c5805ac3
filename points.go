package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/spf13/cobra"

	"tagsphere/internal/sphere"
)

type pointRecord struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
}

func writePoints(w io.Writer, n int) error {
	points := sphere.Generate(n)
	records := make([]pointRecord, len(points))
	for i, p := range points {
		records[i] = pointRecord{Index: i, X: p.X(), Y: p.Y(), Z: p.Z()}
	}
	return json.MarshalWrite(w, records, jsontext.WithIndent("  "))
}

var pointsCmd = &cobra.Command{
	Use:   "points [count]",
	Short: "print the sphere points generated for count labels as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid count %q", args[0])
		}
		if err := writePoints(os.Stdout, n); err != nil {
			return fmt.Errorf("failed to write points: %w", err)
		}
		fmt.Fprintln(os.Stdout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pointsCmd)
}
