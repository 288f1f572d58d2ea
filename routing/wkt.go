package routing

import (
	"strconv"
	"strings"

	"github.com/yaounde-maps/map-api/models"
)

// lineStringWKT renders a provider coordinate array ([lng, lat] pairs) as
// WKT. Coordinate order is kept as longitude-then-latitude to match the
// provider's native order; the map client depends on it.
// Returns "" when no well-formed pair is present.
func lineStringWKT(coords [][]float64) string {
	var sb strings.Builder
	n := 0
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		if n > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(formatCoord(c[0]))
		sb.WriteByte(' ')
		sb.WriteString(formatCoord(c[1]))
		n++
	}
	if n == 0 {
		return ""
	}
	return "LINESTRING(" + sb.String() + ")"
}

// parseLineStringCoords extracts the coordinate pairs of a single
// "LINESTRING(x y, x y, ...)" string. Malformed fragments are skipped.
func parseLineStringCoords(wkt string) [][]float64 {
	if !strings.HasPrefix(wkt, "LINESTRING") {
		return nil
	}
	open := strings.Index(wkt, "(")
	end := strings.LastIndex(wkt, ")")
	if open < 0 || end <= open {
		return nil
	}
	var coords [][]float64
	for _, pair := range strings.Split(wkt[open+1:end], ",") {
		fields := strings.Fields(pair)
		if len(fields) != 2 {
			continue
		}
		x, errX := strconv.ParseFloat(fields[0], 64)
		y, errY := strconv.ParseFloat(fields[1], 64)
		if errX != nil || errY != nil {
			continue
		}
		coords = append(coords, []float64{x, y})
	}
	return coords
}

// mergeStepGeometries flattens the WKT of every step into a single
// LINESTRING, preserving point order across steps. Duplicate boundary points
// between consecutive steps are kept as-is.
func mergeStepGeometries(steps []models.RouteStep) string {
	var all [][]float64
	for _, step := range steps {
		all = append(all, parseLineStringCoords(step.Geometry)...)
	}
	return lineStringWKT(all)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
