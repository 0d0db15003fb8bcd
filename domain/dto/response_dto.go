package dto

// Res is the admin API response envelope.
type Res struct {
	ResponseCode    string      `json:"response_code"`
	ResponseMessage string      `json:"response_message"`
	Data            interface{} `json:"data,omitempty"`
}

// ResStats summarizes relay activity for the dashboard.
type ResStats struct {
	TotalDownloads int64            `json:"total_downloads"`
	ByPlatform     map[string]int64 `json:"by_platform,omitempty"`
}
