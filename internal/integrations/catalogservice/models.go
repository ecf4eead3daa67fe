package catalogservice

// Service is a bookable service from the catalog.
type Service struct {
	ID              int64   `json:"id"`
	BusinessID      int64   `json:"business_id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	IsActive        bool    `json:"is_active"`
}

// Bundle is a package of services booked as one visit. Duration and price
// are precomputed by the catalog from the member services.
type Bundle struct {
	ID              int64   `json:"id"`
	BusinessID      int64   `json:"business_id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	ServiceIDs      []int64 `json:"service_ids"`
	IsActive        bool    `json:"is_active"`
}

// ErrorResponse is the catalog's error envelope.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
