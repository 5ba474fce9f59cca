package core

// StatusKind distinguishes transient status notifications.
type StatusKind int

const (
	// StatusLoading signals a load or flush in progress.
	StatusLoading StatusKind = iota + 1
	// StatusSuccess signals a completed load, flush, or switch.
	StatusSuccess
	// StatusError signals a failed operation; the core has already taken
	// its recovery path (degraded or volatile) when this fires.
	StatusError
	// StatusInfo signals a neutral state change, e.g. entering volatile
	// mode or a best-effort deletion warning.
	StatusInfo
)

// String returns the lowercase kind name.
func (k StatusKind) String() string {
	switch k {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Status is a transient notification for the UI layer. It is never part of
// durable state.
type Status struct {
	Kind    StatusKind
	Message string
}

// StatusFunc receives status notifications. Called synchronously from core
// operations; implementations must not call back into the core.
type StatusFunc func(Status)
