package entity

// AnalyticsEvent evento de analítica (se guarda localmente y se envía a un sink).
type AnalyticsEvent struct {
	Category  string `json:"category"`
	Action    string `json:"action"`
	Label     string `json:"label"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
}
