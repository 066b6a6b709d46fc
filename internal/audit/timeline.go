package audit

import "time"

// ActionAccessDenied is the audit action written for refused requests.
const ActionAccessDenied = "access_denied"

// TimelineFilters menampung filter dasar untuk timeline penolakan akses.
type TimelineFilters struct {
	From     time.Time
	To       time.Time
	ActorID  string
	Reason   string
	Page     int
	PageSize int
}

// TimelineRow mewakili satu penolakan akses yang tercatat.
type TimelineRow struct {
	At      time.Time `json:"at"`
	ActorID string    `json:"actor_id,omitempty"`
	Role    string    `json:"role,omitempty"`
	Method  string    `json:"method"`
	Path    string    `json:"path"`
	Reason  string    `json:"reason"`
}

// PagingInfo menyimpan metadata pagination sederhana.
type PagingInfo struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasNext  bool `json:"has_next"`
	PrevPage int  `json:"prev_page,omitempty"`
	NextPage int  `json:"next_page,omitempty"`
}

// Result membungkus hasil timeline dengan informasi paging.
type Result struct {
	Rows   []TimelineRow `json:"rows"`
	Paging PagingInfo    `json:"paging"`
}
