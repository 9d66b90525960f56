package domain

// Place is a single search suggestion: a display name bound to a coordinate.
type Place struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}
