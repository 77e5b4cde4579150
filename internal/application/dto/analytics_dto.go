package dto

// TrackEventRequest evento enviado desde la página.
type TrackEventRequest struct {
	Category string `json:"category"`
	Action   string `json:"action"`
	Label    string `json:"label"`
	URL      string `json:"url"`
}
