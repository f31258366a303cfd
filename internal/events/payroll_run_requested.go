package events

import "time"

const PayrollRunRequestedTopic = "payroll.run.requested.v1"

// PayrollRunRequestedEvent asks for an asynchronous batch calculation. An
// empty EmployeeIDs slice means every active employee. Replays are safe: the
// deduction ledger is keyed per period, so a re-consumed request recomputes
// without double-deducting.
type PayrollRunRequestedEvent struct {
	EventType   string    `json:"event_type"`
	RunID       string    `json:"run_id"`
	EmployeeIDs []string  `json:"employee_ids,omitempty"`
	PeriodStart string    `json:"period_start"`
	PeriodEnd   string    `json:"period_end"`
	RequestedBy string    `json:"requested_by,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
