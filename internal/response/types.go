package response

import "time"

type WelcomePayload struct {
	Message string `json:"message"`
}

type HealthPayload struct {
	Status    string     `json:"status"`
	Store     string     `json:"store"`
	Probing   bool       `json:"probing"`
	CheckedAt *time.Time `json:"checkedAt,omitempty"`
}

type WelcomeResponse struct {
	Success   bool           `json:"success"`
	Data      WelcomePayload `json:"data"`
	Timestamp string         `json:"timestamp"`
}

type HealthResponse struct {
	Success   bool          `json:"success"`
	Data      HealthPayload `json:"data"`
	Timestamp string        `json:"timestamp"`
}

type SchedulerControlPayload struct {
	Message string `json:"message"`
}

type SchedulerControlResponse struct {
	Success   bool                    `json:"success"`
	Data      SchedulerControlPayload `json:"data"`
	Timestamp string                  `json:"timestamp"`
}

// PagePayload carries a page body returned by get_page.
type PagePayload struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

type PageResponse struct {
	Success   bool        `json:"success"`
	Data      PagePayload `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// PageCountPayload carries the access counter of a URL.
type PageCountPayload struct {
	URL   string `json:"url"`
	Count int64  `json:"count"`
}

type PageCountResponse struct {
	Success   bool             `json:"success"`
	Data      PageCountPayload `json:"data"`
	Timestamp string           `json:"timestamp"`
}

type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
}
