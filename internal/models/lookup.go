package models

import "slices"

type LookupKind string

const (
	LookupKindPNR           LookupKind = "PNR"
	LookupKindRunningStatus LookupKind = "RUNNING_STATUS"
)

func (k LookupKind) Valid() bool {
	return k == LookupKindPNR || k == LookupKindRunningStatus
}

// LookupQuery is one user submission. Identifier is a PNR number or a train number.
type LookupQuery struct {
	Identifier string     `validate:"required"`
	Kind       LookupKind `validate:"required"`
}

type ErrKind string

const (
	ErrKindEmptyQuery       ErrKind = "EmptyQuery"
	ErrKindUpstreamError    ErrKind = "UpstreamError"
	ErrKindTransportFailure ErrKind = "TransportFailure"
)

// UpstreamCode is an application-level error code embedded in an otherwise
// successful PNR response. The values are opaque.
type UpstreamCode string

const (
	UpstreamCode712  UpstreamCode = "712"
	UpstreamCode1007 UpstreamCode = "100.7"
)

type LookupError struct {
	Kind    ErrKind      `json:"kind"`
	Code    UpstreamCode `json:"code,omitempty"`
	Message string       `json:"message"`
}

func (e *LookupError) Error() string {
	if e.Code != "" {
		return string(e.Kind) + " (" + string(e.Code) + "): " + e.Message
	}
	return string(e.Kind) + ": " + e.Message
}

// StatusResult is the outcome of one lookup: either a payload or an error,
// never both. Fields are unexported so a result cannot change after it is built.
type StatusResult struct {
	kind    LookupKind
	query   string
	pnr     *PNRStatus
	running *RunningStatus
	err     *LookupError
}

func OkPNR(query string, p PNRStatus) StatusResult {
	return StatusResult{kind: LookupKindPNR, query: query, pnr: &p}
}

func OkRunning(query string, r RunningStatus) StatusResult {
	return StatusResult{kind: LookupKindRunningStatus, query: query, running: &r}
}

func Failed(kind LookupKind, query string, e LookupError) StatusResult {
	return StatusResult{kind: kind, query: query, err: &e}
}

func (r StatusResult) Kind() LookupKind { return r.kind }
func (r StatusResult) Query() string    { return r.query }
func (r StatusResult) OK() bool         { return r.err == nil && (r.pnr != nil || r.running != nil) }
func (r StatusResult) IsZero() bool     { return r.err == nil && r.pnr == nil && r.running == nil }

// Err returns a copy of the lookup error, or nil for a successful result.
func (r StatusResult) Err() *LookupError {
	if r.err == nil {
		return nil
	}
	e := *r.err
	return &e
}

func (r StatusResult) PNR() (PNRStatus, bool) {
	if r.pnr == nil {
		return PNRStatus{}, false
	}
	return r.pnr.clone(), true
}

func (r StatusResult) Running() (RunningStatus, bool) {
	if r.running == nil {
		return RunningStatus{}, false
	}
	return r.running.clone(), true
}

// Outcome is "ok" or the error kind; used as a metrics label and in events.
func (r StatusResult) Outcome() string {
	if r.err != nil {
		return string(r.err.Kind)
	}
	if r.OK() {
		return "ok"
	}
	return ""
}

func (p PNRStatus) clone() PNRStatus {
	p.Passengers = slices.Clone(p.Passengers)
	return p
}

func (s RunningStatus) clone() RunningStatus {
	s.Stations = slices.Clone(s.Stations)
	if s.Status != nil {
		st := *s.Status
		s.Status = &st
	}
	return s
}
