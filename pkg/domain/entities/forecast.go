package entities

// ForecastID identifies a raw-material purchase recommendation
type ForecastID string

// ForecastOrderDetail is one order covered by a forecast
type ForecastOrderDetail struct {
	OrderID         OrderID `json:"order_id"`
	RequiredWidth   float64 `json:"required_width"`
	RequiredLength  float64 `json:"required_length"`
	Quantity        int     `json:"quantity"`
	EstimatedWeight float64 `json:"estimated_weight"`
}

// RMForecast recommends a raw-material purchase for demand the current
// inventory cannot serve
type RMForecast struct {
	ID                   ForecastID            `json:"id"`
	RecommendedWidth     float64               `json:"recommended_width"`
	RecommendedThickness float64               `json:"recommended_thickness"`
	RecommendedWeight    float64               `json:"recommended_weight"`
	Grade                string                `json:"grade"`
	Unfulfilled          []OrderID             `json:"unfulfilled"`
	Quantity             int                   `json:"quantity"`
	Details              []ForecastOrderDetail `json:"details"`
}
