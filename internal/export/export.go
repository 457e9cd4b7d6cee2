// Package export serializes completed measurement groups to GeoJSON and
// writes them to disk, optionally gzipped, for upload to a measurement
// server.
package export

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eric-ce/mapmeasure/internal/label"
	"github.com/eric-ce/mapmeasure/internal/model"
	"github.com/eric-ce/mapmeasure/pkg/core"
)

// FeatureCollection is the root GeoJSON structure.
type FeatureCollection struct {
	Type     string    `json:"type"` // always "FeatureCollection"
	Scene    string    `json:"scene,omitempty"`
	Features []Feature `json:"features"`
}

// Feature is one measurement group rendered as a GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"` // always "Feature"
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry holds the GeoJSON geometry. Coordinates nesting depends on Type:
// Point is [lng, lat], LineString is [[lng, lat], ...], Polygon is one level
// deeper with a single closed ring.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// Config holds export output settings.
type Config struct {
	OutputDir      string
	CompressOutput bool
}

// Writer builds and writes GeoJSON exports.
type Writer struct {
	cfg            Config
	lastExportPath string
}

// NewWriter creates an export writer.
func NewWriter(cfg Config) *Writer {
	return &Writer{cfg: cfg}
}

// LastExportPath returns the path of the most recent export, empty if none.
func (w *Writer) LastExportPath() string {
	return w.lastExportPath
}

func coord(p core.Position) []float64 {
	return []float64{p.Lng, p.Lat}
}

func lineCoords(ps core.Positions) [][]float64 {
	out := make([][]float64, 0, len(ps))
	for _, p := range ps {
		out = append(out, coord(p))
	}
	return out
}

// groupGeometry maps a group's mode onto its GeoJSON geometry. Curves export
// the interpolated polyline rather than the three control points; polygons
// export a single auto-closed ring.
func groupGeometry(g *model.Group) Geometry {
	switch g.Mode {
	case core.ModePointInfo:
		return Geometry{Type: "Point", Coordinates: coord(g.Coordinates[0])}

	case core.ModePolygon:
		ring := lineCoords(g.Coordinates)
		first, last := ring[0], ring[len(ring)-1]
		if first[0] != last[0] || first[1] != last[1] {
			ring = append(ring, first)
		}
		return Geometry{Type: "Polygon", Coordinates: [][][]float64{ring}}

	case core.ModeCurve:
		pts := g.Interpolated
		if len(pts) == 0 {
			pts = g.Coordinates
		}
		return Geometry{Type: "LineString", Coordinates: lineCoords(pts)}

	default:
		return Geometry{Type: "LineString", Coordinates: lineCoords(g.Coordinates)}
	}
}

// groupProperties carries the group's records and lettering so the file is
// self-describing without the engine.
func groupProperties(g *model.Group) map[string]any {
	props := map[string]any{
		"id":         g.ID,
		"mode":       string(g.Mode),
		"labelIndex": g.LabelIndex,
	}

	if len(g.SegmentLetters) > 0 {
		letters := make([]string, 0, len(g.SegmentLetters))
		for _, n := range g.SegmentLetters {
			letters = append(letters, fmt.Sprintf("%c%d", label.Letter(n), g.LabelIndex))
		}
		props["segmentLetters"] = letters
	}

	switch g.Mode {
	case core.ModePolygon:
		props["area"] = g.Records.Area
		props["areaLabel"] = label.Area(g.Records.Area)
	case core.ModePointInfo:
		// no derived records
	default:
		props["distances"] = g.Records.Distances
		props["totalDistance"] = g.Records.Total
		props["totalLabel"] = label.Total(g.Records.Total)
	}

	return props
}

// Build converts completed groups into a FeatureCollection. Pending groups
// and groups below their mode's minimum size are skipped.
func Build(scene string, groups []*model.Group) FeatureCollection {
	fc := FeatureCollection{
		Type:     "FeatureCollection",
		Scene:    scene,
		Features: make([]Feature, 0, len(groups)),
	}

	for _, g := range groups {
		if g.Status != core.GroupCompleted || len(g.Coordinates) == 0 {
			continue
		}
		if g.Mode != core.ModePointInfo && len(g.Coordinates) < 2 {
			continue
		}
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Geometry:   groupGeometry(g),
			Properties: groupProperties(g),
		})
	}

	return fc
}

// Write serializes the groups and writes them under the configured output
// directory. Returns the written file path.
func (w *Writer) Write(scene string, groups []*model.Group) (string, error) {
	fc := Build(scene, groups)

	name := strings.ReplaceAll(scene, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	if name == "" {
		name = "measurements"
	}
	timestamp := time.Now().Format("20060102_150405")

	var filename string
	if w.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.geojson.gz", name, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.geojson", name, timestamp)
	}

	outputPath := filepath.Join(w.cfg.OutputDir, filename)

	if err := os.MkdirAll(w.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if w.cfg.CompressOutput {
		if err := writeGzipJSON(outputPath, fc); err != nil {
			return "", err
		}
	} else {
		if err := writeJSON(outputPath, fc); err != nil {
			return "", err
		}
	}

	w.lastExportPath = outputPath
	return outputPath, nil
}

func writeJSON(path string, data FeatureCollection) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data FeatureCollection) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}
