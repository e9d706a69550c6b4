// Package domain contains pure business types without external dependencies.
// These types are used throughout the application and have no framework dependencies.
package domain

// ContainerState is the abstract lifecycle state of a container.
// Engine adapters map their native statuses onto one of these two values.
type ContainerState string

const (
	// ContainerStateActive means the container process is up or on its way up.
	ContainerStateActive ContainerState = "active"
	// ContainerStateInactive means the container process is not consuming resources.
	ContainerStateInactive ContainerState = "inactive"
)

// ContainerRecord is a read-only projection of a container as reported by the engine.
type ContainerRecord struct {
	Name     string
	ImageTag string
	EngineID string
	State    ContainerState
}

// NetworkConfig describes the single bridge network shared by managed containers.
type NetworkConfig struct {
	Name    string
	Subnet  string
	IPRange string
	Gateway string
}
