package models

// CycleMarker flags a historical top or bottom on the chart.
type CycleMarker struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// CycleCalendar lists the reference dates (YYYY-MM-DD) checked by the annotator.
type CycleCalendar struct {
	Tops    []string
	Bottoms []string
}

// CycleMarkers is the annotator output.
type CycleMarkers struct {
	Tops    []CycleMarker
	Bottoms []CycleMarker
}

// ChartResponse is the payload of GET /chart-data.
// Nil entries in the numeric arrays serialize as JSON null.
type ChartResponse struct {
	Dates       []string      `json:"dates"`
	IndexValues []*float64    `json:"index_values"`
	MA200       []*float64    `json:"ma200"`
	MA150       []*float64    `json:"ma150"`
	MA100       []*float64    `json:"ma100"`
	Tops        []CycleMarker `json:"tops"`
	Bottoms     []CycleMarker `json:"bottoms"`
}

// ErrorResponse is the payload of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Snapshot bool   `json:"snapshot"`
}
