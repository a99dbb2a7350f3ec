// Package models holds the wire (raw) and canonical transaction/interval
// shapes shared between the HTTP surface and the core pipelines. The
// raw/canonical split mirrors how a wire record is turned into an
// assembled domain record before any computation touches it.
package models

// RawTransaction is the loosely typed shape a client submits: either
// Date or Timestamp may be set (Date wins when both are present), and
// Ceiling/Remanent are only required in strict (validator) mode.
type RawTransaction struct {
	Date      string   `json:"date"`
	Timestamp string   `json:"timestamp"`
	Amount    float64  `json:"amount"`
	Ceiling   *float64 `json:"ceiling,omitempty"`
	Remanent  *float64 `json:"remanent,omitempty"`
}

// Transaction is the canonical, post-canonicalization record. Epoch is
// the UTC epoch second derived from Date. AdjustedRemanent is nil until
// the temporal engine has run.
type Transaction struct {
	Date             string   `json:"date"`
	Epoch            int64    `json:"-"`
	Amount           float64  `json:"amount"`
	Ceiling          float64  `json:"ceiling"`
	Remanent         float64  `json:"remanent"`
	AdjustedRemanent *float64 `json:"-"`
}

// IntervalKind discriminates the three interval families carried in a
// batch, mirroring the EdgeType-style discriminated payload pattern.
type IntervalKind int

const (
	KindQ IntervalKind = iota
	KindP
	KindK
)

// RawInterval is the wire shape for a Q/P/K interval entry.
type RawInterval struct {
	Start string   `json:"start"`
	End   string   `json:"end"`
	Fixed *float64 `json:"fixed,omitempty"`
	Extra *float64 `json:"extra,omitempty"`
}

// Interval is a materialized, validated Q/P/K interval. Index preserves
// insertion order for tie-breaking. Value holds Fixed for Q, Extra for P,
// and is unused for K.
type Interval struct {
	Kind       IntervalKind
	Start      string
	End        string
	StartEpoch int64
	EndEpoch   int64
	Index      int
	Value      float64
}

// KWindowResult is a single K-window's aggregated total, keyed by the
// interval's own original Start/End strings.
type KWindowResult struct {
	Start  string
	End    string
	Amount float64
}
