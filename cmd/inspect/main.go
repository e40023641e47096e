package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"holopyramid/internal/facet"
	"holopyramid/internal/geometry"
	"holopyramid/internal/mathutil"
)

func main() {
	canvas := flag.Float64("canvas", 512, "Canvas size in pixels")
	sides := flag.Int("sides", 4, "Side count")
	inner := flag.Float64("inner", 50, "Inner polygon size in pixels")
	asJSON := flag.Bool("json", false, "Dump the geometry bundle as JSON")
	flag.Parse()

	polygons := geometry.NewPolygonCache()
	b, err := facet.ComputeFacetGeometry(polygons, *canvas, *sides, *inner)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(b)
		return
	}

	fmt.Printf("Canvas: %g, sides: %d, inner polygon: %g\n", b.CanvasSize, b.Sides(), b.InnerPolygonSize)
	fmt.Printf("Polygon rotation: %.4f rad (%.1f°), offset: (%.3f, %.3f)\n",
		b.PolygonInfo.Rotation, mathutil.Rad2Deg(b.PolygonInfo.Rotation),
		b.PolygonInfo.Offset.DX, b.PolygonInfo.Offset.DY)
	if n := len(b.OuterEdgePoints); n > 1 {
		fmt.Printf("Outer side: %.3f, inner incircle: %.3f\n",
			geometry.SideLength(b.OuterEdgePoints[0], b.OuterEdgePoints[1]), b.InnerPolygonIncircleRadius)
	}

	for i := 0; i < b.Sides(); i++ {
		tr, err := facet.BuildFacetTransforms(i, b, facet.DefaultSettings())
		if err != nil {
			fmt.Printf("  Facet[%d]: %v\n", i, err)
			continue
		}
		fmt.Printf("  Facet[%d]: image rotation %.1f°\n", i, mathutil.Rad2Deg(tr.Image.RotationAngle()))
		fmt.Printf("    clip  %v\n", fmtAffine(tr.Clip))
		fmt.Printf("    image %v\n", fmtAffine(tr.Image))
		for _, p := range tr.ClipPath {
			fmt.Printf("    path (%.2f, %.2f)\n", p.X, p.Y)
		}
	}
}

func fmtAffine(m mathutil.Affine) string {
	return fmt.Sprintf("[%.4f %.4f %.4f %.4f %.2f %.2f]", m[0], m[1], m[2], m[3], m[4], m[5])
}
