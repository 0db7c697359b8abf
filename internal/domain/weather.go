package domain

// WeatherSnapshot holds the weather metrics of one assessment.
type WeatherSnapshot struct {
	Rainfall    float64 `json:"rainfall"`    // mm/hr
	WindSpeed   float64 `json:"wind_speed"`  // m/s
	Temperature float64 `json:"temperature"` // °C
}
