package mapview

import "github.com/paulmach/orb/geojson"

// FeatureCollection renders what is drawn: markers as points carrying
// "marker-color", then each line layer as a LineString carrying its paint.
func (v *View) FeatureCollection() *geojson.FeatureCollection {
	markers := v.Markers()

	v.mu.Lock()
	defer v.mu.Unlock()

	fc := geojson.NewFeatureCollection()
	for _, m := range markers {
		f := geojson.NewFeature(m.At.Point())
		f.Properties["kind"] = "marker"
		f.Properties["marker-color"] = m.Color
		fc.Append(f)
	}

	for _, l := range v.layers {
		line, ok := v.sources[l.Source]
		if !ok {
			continue
		}
		f := geojson.NewFeature(line)
		f.ID = l.ID
		f.Properties["kind"] = "line"
		f.Properties["source"] = l.Source
		f.Properties["line-join"] = l.LineJoin
		f.Properties["line-cap"] = l.LineCap
		f.Properties["line-color"] = l.LineColor
		f.Properties["line-width"] = l.LineWidth
		fc.Append(f)
	}

	return fc
}
