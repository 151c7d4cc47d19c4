package fiber

type MetricRowResponse struct {
	MetricName string `json:"metric_name" example:"Total Journeys"`
	PeriodEnd  string `json:"period_end" example:"2024-01-14"`
	Value      string `json:"value" example:"1.2k"`
	SortOrder  int    `json:"sort_order" example:"11"`
}

// TileResponse.Delta uses the inverted sign of the period delta: a drop from
// 100 to 80 is "20.0%" and a rise from 80 to 100 is "-25.0%". It is empty for
// metrics that are themselves deltas.
type TileResponse struct {
	MetricName string `json:"metric_name" example:"Amps - Total"`
	PeriodEnd  string `json:"period_end" example:"2024-01-14"`
	Value      string `json:"value" example:"1.50T"`
	Trend      string `json:"trend" example:"▼"`
	Delta      string `json:"delta,omitempty" example:"25.0%"`
	SortOrder  int    `json:"sort_order" example:"40"`
}

type ReportResponse struct {
	AsOf     string              `json:"as_of" example:"2024-01-14"`
	Period   string              `json:"period" example:"week"`
	Entities int                 `json:"entities" example:"42"`
	Rows     []MetricRowResponse `json:"rows"`
	Tiles    []TileResponse      `json:"tiles"`
	Warnings []string            `json:"warnings,omitempty"`
}

type EntityRunningTotalResponse struct {
	EntityID        string `json:"entity_id" example:"T1"`
	EntityName      string `json:"entity_name" example:"Acme"`
	PeriodEnd       string `json:"period_end" example:"2024-01-14"`
	PeriodValue     string `json:"period_value" example:"3"`
	CumulativeValue string `json:"cumulative_value" example:"17"`
}

type RunningTotalsResponse struct {
	EventTypes []string                     `json:"event_types"`
	Measure    string                       `json:"measure" example:"count"`
	Rows       []EntityRunningTotalResponse `json:"rows"`
}

type JourneyTenantResponse struct {
	EntityID   string `json:"entity_id" example:"T1"`
	EntityName string `json:"entity_name" example:"Acme"`
	Runs       int64  `json:"runs" example:"3"`
}

type JourneyTenantPeriodResponse struct {
	PeriodStart string                  `json:"period_start" example:"2024-01-08"`
	PeriodEnd   string                  `json:"period_end" example:"2024-01-14"`
	FirstTime   []JourneyTenantResponse `json:"first_time"`
	Additional  []JourneyTenantResponse `json:"additional"`
	Running     []JourneyTenantResponse `json:"running"`
	TotalRuns   int64                   `json:"total_runs" example:"12"`
}

type JourneyTenantsResponse struct {
	Periods []JourneyTenantPeriodResponse `json:"periods"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_query"`
	Message string `json:"message" example:"count must be positive, got 0"`
}
