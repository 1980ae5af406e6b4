package model

// HealthStatus is the GET /health response
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// ChatRequest is the payload of POST /api/chat
type ChatRequest struct {
	Text string `json:"text"`
}

// ChatReply is the response of POST /api/chat
type ChatReply struct {
	ID    string `json:"id"`
	Reply string `json:"reply"`
}

// SayRequest is the payload of POST /api/say
type SayRequest struct {
	Text string `json:"text"`
}
