package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"zomatour/pkg/contracts/domain"
)

// Feature property names
const (
	PropCity       = "city"
	PropRestaurant = "restaurant_name"
	PropRating     = "aggregate_rating"
	PropColor      = "color"
	PropPopup      = "popup"
)

// FeatureCollection converts map markers to GeoJSON points. The map center
// is stored in the collection's foreign members as "center".
func FeatureCollection(view domain.MapView) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, m := range view.Markers {
		f := geojson.NewFeature(orb.Point{m.Longitude, m.Latitude})
		f.Properties[PropCity] = m.City
		f.Properties[PropRestaurant] = m.RestaurantName
		f.Properties[PropRating] = m.AggregateRating
		f.Properties[PropColor] = m.ColorName
		f.Properties[PropPopup] = Popup(m)
		fc.Append(f)
	}

	fc.ExtraMembers = geojson.Properties{
		"center": []float64{view.CenterLongitude, view.CenterLatitude},
	}
	return fc
}

// Popup is the marker popup text
func Popup(m domain.MapMarker) string {
	return fmt.Sprintf("%s - %s (%.1f)", m.RestaurantName, m.City, m.AggregateRating)
}

// Bounds returns the bounding box of the markers
func Bounds(view domain.MapView) (orb.Bound, bool) {
	if len(view.Markers) == 0 {
		return orb.Bound{}, false
	}
	mp := make(orb.MultiPoint, len(view.Markers))
	for i, m := range view.Markers {
		mp[i] = orb.Point{m.Longitude, m.Latitude}
	}
	return mp.Bound(), true
}
