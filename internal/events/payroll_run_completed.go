package events

import "time"

const PayrollRunCompletedTopic = "payroll.run.completed.v1"

// PayrollRunCompletedEvent is recorded through the outbox once a batch
// finishes, for downstream payslip and export consumers.
type PayrollRunCompletedEvent struct {
	EventType   string    `json:"event_type"`
	RunID       string    `json:"run_id"`
	PeriodStart string    `json:"period_start"`
	PeriodEnd   string    `json:"period_end"`
	Processed   int       `json:"processed"`
	Succeeded   int       `json:"succeeded"`
	Failed      int       `json:"failed"`
	TotalNetPay string    `json:"total_net_pay"`
	OccurredAt  time.Time `json:"occurred_at"`
}
