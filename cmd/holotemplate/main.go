package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"holopyramid/internal/template"
)

func main() {
	sides := flag.Int("sides", 4, "Pyramid side count")
	slope := flag.Float64("slope", 45, "Mirror slope in degrees")
	inside := flag.Float64("inside", 50, "Inner polygon size in pixels")
	outside := flag.Float64("outside", 512, "Canvas size in pixels")
	dpi := flag.Float64("dpi", template.ScreenDPI, "Printer resolution")
	label := flag.Bool("label", true, "Print the dimensions on the template")
	out := flag.String("o", "template.png", "Output PNG path")
	flag.Parse()

	d, err := template.Compute(*sides, *slope, *inside, *outside)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	fmt.Println(d.Label())

	img, err := template.Render(d, *dpi, *label)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error: PNG encode: %v\n", err)
		os.Exit(1)
	}
	b := img.Bounds()
	fmt.Printf("Template: %s (%dx%d px, cut %d pieces)\n", *out, b.Dx(), b.Dy(), *sides)
}
