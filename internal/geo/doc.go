// Package geo turns the world map markers into GeoJSON for the Leaflet page.
package geo
