package place

import "time"

// Place is a cached destination row keyed by the external provider's id.
type Place struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Rating   float64 `json:"rating"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

type Favorite struct {
	ProfileID string    `json:"profile_id"`
	PlaceID   string    `json:"place_id"`
	CreatedAt time.Time `json:"created_at"`
	Place     *Place    `json:"place,omitempty"`
}
