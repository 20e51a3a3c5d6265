package domain

// WorkerState is the lifecycle position of the caching worker.
type WorkerState uint8

const (
	// StateUnregistered means no manifest has been registered yet.
	StateUnregistered WorkerState = iota
	// StateInstalling means assets are being fetched into a new cache version.
	StateInstalling
	// StateInstalled means the new cache version is populated and waiting to activate.
	StateInstalled
	// StateActivating means obsolete cache versions are being evicted.
	StateActivating
	// StateActivated means the worker controls requests.
	StateActivated
	// StateRedundant means the latest install failed. A previously active
	// manifest, if any, stays in control.
	StateRedundant
)

// String returns the lowercase name of the state.
func (s WorkerState) String() string {
	switch s {
	case StateUnregistered:
		return "unregistered"
	case StateInstalling:
		return "installing"
	case StateInstalled:
		return "installed"
	case StateActivating:
		return "activating"
	case StateActivated:
		return "activated"
	case StateRedundant:
		return "redundant"
	default:
		return "unknown"
	}
}
