package recorder

// RunEvent records the outcome of one run for auditing.
type RunEvent struct {
	Mode        string
	RecordCount int
	AlertCount  int
	TotalValue  float64
	TotalCost   float64
	Error       string
}

// AlertEvent records a single emitted threshold crossing.
type AlertEvent struct {
	Identity      string
	PreviousValue float64
	CurrentValue  float64
	PercentChange float64
}

// Recorder persists run outcomes for auditing. It is write-only output:
// the alert engine never reads it back.
type Recorder interface {
	RecordRun(evt *RunEvent) error
	RecordAlert(evt *AlertEvent) error
	Close() error
}
