// Package export renders one selection to files: the chart spec and plotly
// figure as JSON, a PNG picture, the filtered rows as CSV and XLSX, and for
// map views a GeoJSON point collection.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"ipedsviz/internal/chart"
	"ipedsviz/internal/controls"
	"ipedsviz/internal/dataset"
)

// Result lists the files written by Run, in write order.
type Result struct {
	Dir   string
	Files []string
	Spec  *chart.Spec
}

// Run renders sel against ds and writes every export format into dir,
// creating it if needed. File names start with the lowercase mode name.
func Run(ctx context.Context, dir string, ds *dataset.Dataset, sel controls.Selection) (*Result, error) {
	ctx, span := otel.Tracer("ipedsviz/export").Start(ctx, "export.write")
	defer span.End()
	span.SetAttributes(
		attribute.String("ipedsviz.mode", sel.Mode.String()),
		attribute.String("ipedsviz.export.dir", dir),
	)

	res, err := run(ctx, dir, ds, sel)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("ipedsviz.export.files", len(res.Files)))
	return res, nil
}

func run(ctx context.Context, dir string, ds *dataset.Dataset, sel controls.Selection) (*Result, error) {
	spec, err := chart.Render(ctx, ds, sel)
	if err != nil {
		return nil, err
	}
	view, err := chart.View(ds, sel)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	res := &Result{Dir: dir, Spec: spec}
	base := strings.ToLower(sel.Mode.String())
	write := func(name string, fn func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		if err := writeFile(path, fn); err != nil {
			return fmt.Errorf("export %s: %w", name, err)
		}
		res.Files = append(res.Files, path)
		return nil
	}

	steps := []struct {
		name string
		fn   func(io.Writer) error
	}{
		{base + ".spec.json", func(w io.Writer) error { return WriteJSON(w, spec) }},
		{base + ".figure.json", func(w io.Writer) error { return WriteJSON(w, spec.Figure()) }},
		{base + ".png", func(w io.Writer) error { return WritePNG(w, spec) }},
		{base + ".csv", view.WriteCSV},
		{base + ".xlsx", func(w io.Writer) error { return WriteXLSX(w, view, spec) }},
	}
	if spec.Kind == chart.KindScatterGeo {
		steps = append(steps, struct {
			name string
			fn   func(io.Writer) error
		}{base + ".geojson", func(w io.Writer) error { return WriteGeoJSON(w, spec) }})
	}
	for _, s := range steps {
		if err := write(s.name, s.fn); err != nil {
			return nil, err
		}
	}
	log.Printf("export.Run: wrote %d files to %s (%d points)", len(res.Files), dir, spec.Points())
	return res, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
