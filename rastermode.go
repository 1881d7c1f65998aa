package soft3d

// RasterMode selects how a triangle is converted into candidate pixels
// inside a tile.
//
// Both modes produce identical coverage: every candidate pixel is accepted or
// rejected with the same barycentric top-left rule, so switching modes never
// changes the image. They differ only in how many pixels are tested.
//
// Use cases for forcing a mode:
//   - Benchmarking: compare candidate generation on the same workload
//   - Long thin triangles: scanline spans skip most of a large bounding box
//   - Regression testing: ensure both paths produce the same output
type RasterMode int

const (
	// RasterBoundingBox tests every pixel center in the triangle bounds
	// clipped to the tile (default).
	RasterBoundingBox RasterMode = iota

	// RasterScanline splits the triangle into flat-top and flat-bottom halves
	// and walks one horizontal span per row.
	RasterScanline
)

// String returns the raster mode name.
func (m RasterMode) String() string {
	switch m {
	case RasterBoundingBox:
		return "BoundingBox"
	case RasterScanline:
		return "Scanline"
	default:
		return "Unknown"
	}
}

// ParseRasterMode converts a name accepted by String back into a mode.
func ParseRasterMode(s string) (RasterMode, bool) {
	switch s {
	case "BoundingBox", "bbox", "boundingbox":
		return RasterBoundingBox, true
	case "Scanline", "scanline":
		return RasterScanline, true
	default:
		return RasterBoundingBox, false
	}
}
