package events

import "time"

// Response is the canonical envelope returned for a single event:
// server-assigned identity alongside the client payload. It is a read-only
// projection and carries no storage-internal fields.
type Response struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"created_at"`
	Payload   Payload `json:"payload"`
}

// NewResponse shapes a stored event into the response envelope.
func NewResponse(event Event) Response {
	return Response{
		ID:        event.ID,
		CreatedAt: event.CreatedAt.UTC().Format(time.RFC3339Nano),
		Payload:   event.Payload,
	}
}

// NewListResponse shapes a result set, preserving order.
func NewListResponse(items []Event) []Response {
	responses := make([]Response, 0, len(items))
	for _, event := range items {
		responses = append(responses, NewResponse(event))
	}
	return responses
}
