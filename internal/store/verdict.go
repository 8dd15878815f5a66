package store

// Verdict is the recorded outcome of one validation run.
//
// Error fields are empty when Valid is true. ErrorTarget is only set for
// UNRESOLVED_REFERENCE.
type Verdict struct {
	RunID       string `json:"run_id"`
	Seq         int64  `json:"seq"`
	Source      string `json:"source,omitempty"`
	OrderID     string `json:"order_id,omitempty"`
	Kind        string `json:"kind"`
	Fingerprint string `json:"fingerprint"`
	ItemCount   int    `json:"item_count"`
	Valid       bool   `json:"valid"`
	ErrorKind   string `json:"error_kind,omitempty"`
	ErrorItem   string `json:"error_item,omitempty"`
	ErrorTarget string `json:"error_target,omitempty"`
	Message     string `json:"message,omitempty"`
	MaxSteps    int    `json:"max_steps"`
	Cached      bool   `json:"cached"`
}
