package models

// HealthCheckResponse returns the health check response struct, exported for
// testing purposes
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}

// CleanupResponse is returned by the admin cleanup endpoint with the number
// of reports removed by the retention sweep
type CleanupResponse struct {
	Deleted int64 `json:"deleted"`
}
