package domain

// CapabilityInfo describes one registered capability for listing surfaces.
// The executable handler lives in the registry, not here.
type CapabilityInfo struct {
	// Type is the unique capability key tasks are routed by.
	Type string `json:"type"`

	// Description is a short human-readable summary.
	Description string `json:"description"`
}
