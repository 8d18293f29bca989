package export

import (
	"io"

	geojson "github.com/paulmach/go.geojson"

	"ipedsviz/internal/chart"
)

// GeoJSON builds one point feature per marker over every frame. The frame
// name is kept as the feature's "year" property.
func GeoJSON(spec *chart.Spec) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range spec.Frames {
		for _, p := range f.Points {
			feat := geojson.NewPointFeature([]float64{p.X, p.Y})
			feat.SetProperty("institution", p.Hover)
			feat.SetProperty("year", f.Name)
			feat.SetProperty("size", p.Size)
			if spec.Channels.Size != "" {
				feat.SetProperty("size_column", spec.Channels.Size)
			}
			fc.AddFeature(feat)
		}
	}
	return fc
}

// WriteGeoJSON writes GeoJSON(spec).
func WriteGeoJSON(w io.Writer, spec *chart.Spec) error {
	b, err := GeoJSON(spec).MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
