package types

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// EventInfo summarizes one registered event id.
type EventInfo struct {
	// Event id.
	// example: 1001
	ID int `json:"id" example:"1001"`
	// Number of registered listeners, dead owners included.
	// example: 2
	Listeners int `json:"listeners" example:"2"`
}

// EventsResponse wraps the list returned by GET /events.
type EventsResponse struct {
	Events []EventInfo `json:"events"`
	// Total listeners across all events.
	// example: 5
	Total int `json:"total" example:"5"`
}

// DispatchRequest is the body of POST /events/{id}/dispatch.
type DispatchRequest struct {
	// Arguments handed to argument-taking listeners. Omit for a no-argument
	// dispatch.
	// example: ["hello", 3]
	Args []any `json:"args,omitempty"`
}

// DispatchResponse reports what a dispatch did.
type DispatchResponse struct {
	// Event id dispatched.
	// example: 7
	ID int `json:"id" example:"7"`
	// Listeners invoked by this dispatch.
	// example: 2
	Invoked int `json:"invoked" example:"2"`
	// Conditions reported while dispatching (e.g. listener_dead).
	// example: ["listener_dead"]
	Conditions []string `json:"conditions,omitempty"`
}

// OverlayRequest is the body of POST /overlays.
type OverlayRequest struct {
	// UI id of the view.
	// example: 12
	UIID int `json:"ui_id" example:"12"`
	// Asset the view is built from; views are cached per asset.
	// example: toast
	Asset string `json:"asset" example:"toast"`
	// Text shown by the view.
	// example: Saved.
	Content string `json:"content" example:"Saved."`
}

// OverlayResponse identifies a shown or closed view.
type OverlayResponse struct {
	// example: 5b0c5e4e-4f7a-4a57-9d0c-0b5f3f2b7f1e
	GUID string `json:"guid" example:"5b0c5e4e-4f7a-4a57-9d0c-0b5f3f2b7f1e"`
	// example: 12
	UIID int `json:"ui_id" example:"12"`
}

// StatsResponse mirrors the dispatcher counters.
type StatsResponse struct {
	Dispatched uint64 `json:"dispatched"`
	Invoked    uint64 `json:"invoked"`
	NotFound   uint64 `json:"not_found"`
	Dead       uint64 `json:"dead"`
	Loops      uint64 `json:"loops"`
	Duplicates uint64 `json:"duplicates"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Host lifecycle state (loading, ready, stopped).
	// example: ready
	State string `json:"state" example:"ready"`
	// Registered host modules in registration order.
	// example: ["event","overlay"]
	Modules []string `json:"modules"`
	// Completed update ticks.
	Updates uint64 `json:"updates"`
	// Completed fixed-update ticks.
	FixedUpdates uint64 `json:"fixed_updates"`
	// Shown overlay views.
	Overlays int           `json:"overlays"`
	Stats    StatsResponse `json:"stats"`
}
