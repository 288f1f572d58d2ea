package models

// Place is a named point of interest in the places table.
type Place struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Coordinates GeoPoint `json:"coordinates"`
}
