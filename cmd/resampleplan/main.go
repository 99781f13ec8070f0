// Command resampleplan prints the resize strategy and the intermediate
// sizes used for a source, target and quality tier.
package main

import (
	"flag"
	"fmt"
	"os"

	"assetgen/internal/preset"
	"assetgen/internal/resample"
)

func main() {
	from := flag.String("from", "", "Source size WxH")
	to := flag.String("to", "", "Target size WxH")
	quality := flag.String("quality", "high", "Quality tier: standard, high, ultra")
	flag.Parse()

	src, err := preset.ParseSize(*from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -from: %v\n", err)
		os.Exit(2)
	}
	dst, err := preset.ParseSize(*to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -to: %v\n", err)
		os.Exit(2)
	}
	tier, err := resample.ParseTier(*quality)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	strategy := resample.Plan(src, dst, tier)
	fmt.Printf("%s → %s (%s)\n", src, dst, tier)
	fmt.Printf("Magnification: %.2fx\n", resample.MagnificationFactor(src, dst))
	fmt.Printf("Strategy: %s\n", strategy)

	if strategy == resample.Direct {
		return
	}
	prev := src
	for i, step := range resample.StagedSizes(src, dst) {
		fmt.Printf("  %d. %s → %s\n", i+1, prev, step)
		prev = step
	}
	if strategy == resample.StagedSharpen {
		fmt.Println("  + sharpen")
	}
}
