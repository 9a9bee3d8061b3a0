package types

// BBox is a pixel-space bounding box. Only real backends produce one;
// the heuristic classifier emits detections without boxes.
type BBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Detection is one labeled object with a confidence score in [0,1],
// rounded to three decimal places.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	BBox       *BBox   `json:"bbox,omitempty"`
}

// DetectResponse is the canonical reply of POST /detect. Every code path
// (real engine, per-request fallback, heuristic mock) produces this same
// shape.
type DetectResponse struct {
	Success      bool        `json:"success"`
	Detections   []Detection `json:"detections"`
	Image        string      `json:"image"`
	Count        int         `json:"count"`
	Message      string      `json:"message"`
	Engine       string      `json:"engine"`
	RealAI       bool        `json:"real_ai"`
	RequestID    string      `json:"request_id"`
	ProcessingMS int64       `json:"processing_time_ms"`
}

// ErrorResponse is the reply for 4xx/5xx results.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the reply of GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	RealAI      bool   `json:"real_ai"`
	Engine      string `json:"engine"`
	ModelStatus string `json:"model_status"`
}

// StatusResponse is the static capability descriptor of GET /api/status.
type StatusResponse struct {
	Microservice string   `json:"microservice"`
	AIEngine     string   `json:"ai_engine"`
	Status       string   `json:"status"`
	Endpoints    []string `json:"endpoints"`
}
