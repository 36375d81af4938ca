package models

// Requests for the dashboard HTTP endpoints. Defined in domain for
// consistency and reuse.

// DataRequest optionally narrows the snapshot to a single fund.
type DataRequest struct {
	Fund string `query:"fund" json:"fund" validate:"omitempty,max=64"`
}
