// Package geo picks the proxy geolocation for a provisioned browser.
package geo

import "github.com/brianvoe/gofakeit/v7"

// MaxJitter bounds the coordinate jitter in degrees (roughly 2.5 km).
const MaxJitter = 0.025

// Location is a city with jittered coordinates. State is empty outside the US.
type Location struct {
	City      string
	Country   string
	State     string
	Latitude  float64
	Longitude float64
}

var catalog = []Location{
	{City: "New York", Country: "US", State: "NY", Latitude: 40.7128, Longitude: -74.006},
	{City: "Los Angeles", Country: "US", State: "CA", Latitude: 34.0522, Longitude: -118.2437},
	{City: "Chicago", Country: "US", State: "IL", Latitude: 41.8781, Longitude: -87.6298},
	{City: "London", Country: "GB", Latitude: 51.5074, Longitude: -0.1278},
	{City: "Paris", Country: "FR", Latitude: 48.8566, Longitude: 2.3522},
	{City: "Munich", Country: "DE", Latitude: 48.1351, Longitude: 11.582},
	{City: "Berlin", Country: "DE", Latitude: 52.52, Longitude: 13.405},
	{City: "San Francisco", Country: "US", State: "CA", Latitude: 37.7749, Longitude: -122.4194},
	{City: "Boston", Country: "US", State: "MA", Latitude: 42.3601, Longitude: -71.0589},
	{City: "Amsterdam", Country: "NL", Latitude: 52.3676, Longitude: 4.9041},
	{City: "Vancouver", Country: "CA", Latitude: 49.2827, Longitude: -123.1207},
	{City: "San Jose", Country: "US", State: "CA", Latitude: 37.3382, Longitude: -121.8863},
	{City: "Nashville", Country: "US", State: "TN", Latitude: 36.1627, Longitude: -86.7816},
	{City: "Atlanta", Country: "US", State: "GA", Latitude: 33.749, Longitude: -84.388},
	{City: "Denver", Country: "US", State: "CO", Latitude: 39.7392, Longitude: -104.9903},
	{City: "Salt Lake City", Country: "US", State: "UT", Latitude: 40.7608, Longitude: -111.891},
	{City: "Las Vegas", Country: "US", State: "NV", Latitude: 36.1699, Longitude: -115.1398},
	{City: "Santa Barbara", Country: "US", State: "CA", Latitude: 34.4208, Longitude: -119.6982},
	{City: "Kansas City", Country: "US", State: "KS", Latitude: 39.1147, Longitude: -94.627},
	{City: "Prairie Village", Country: "US", State: "KS", Latitude: 38.9917, Longitude: -94.6336},
	{City: "Saint Charles", Country: "US", State: "MO", Latitude: 38.7881, Longitude: -90.4974},
}

// Catalog returns a copy of the city table with unjittered coordinates.
func Catalog() []Location {
	out := make([]Location, len(catalog))
	copy(out, catalog)
	return out
}

// Select picks a city uniformly and jitters latitude and longitude
// independently within ±MaxJitter.
func Select(rng *gofakeit.Faker) Location {
	loc := catalog[rng.IntRange(0, len(catalog)-1)]
	loc.Latitude += rng.Float64Range(-MaxJitter, MaxJitter)
	loc.Longitude += rng.Float64Range(-MaxJitter, MaxJitter)
	return loc
}
