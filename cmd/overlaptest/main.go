// Command overlaptest scores the vertical overlap between two image files and prints the result.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"screencatch/internal/frame"
	"screencatch/internal/overlap"
)

func main() {
	top := flag.String("t", "", "Path to top image")
	bottom := flag.String("b", "", "Path to bottom image")
	maxOverlap := flag.Int("max", 0, "Cap on candidate overlap in pixels (0 = default)")
	verbose := flag.Bool("v", false, "Print per-candidate debug output")
	flag.Parse()

	if *top == "" || *bottom == "" {
		fmt.Println("Usage: overlaptest -t <top> -b <bottom> [-max <px>]")
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	topFrame, err := frame.Load(*top, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load top image: %v\n", err)
		os.Exit(1)
	}
	bottomFrame, err := frame.Load(*bottom, 1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load bottom image: %v\n", err)
		os.Exit(1)
	}

	detector := overlap.NewDetector(overlap.DefaultParams().WithMaxOverlap(*maxOverlap))
	m := detector.Detect(topFrame, bottomFrame)

	fmt.Printf("top:      %dx%d\n", topFrame.Width(), topFrame.Height())
	fmt.Printf("bottom:   %dx%d\n", bottomFrame.Width(), bottomFrame.Height())
	fmt.Printf("overlap:  %dpx\n", m.OverlapPx)
	fmt.Printf("score:    %.1f\n", m.Score)
	fmt.Printf("decision: %s\n", m.Reason)
}
