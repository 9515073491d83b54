package request

// SchedulerRequest represents the JSON body for scheduler control.
type SchedulerRequest struct {
	// Action controls the health probe scheduler. Allowed values:
	// - "start": start probing the store
	// - "stop":  stop probing the store
	Action string `json:"action"`
}
