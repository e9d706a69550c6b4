package docker

import (
	"fmt"

	"github.com/bnema/gateway-core/internal/domain"
)

// stateMap maps Docker container states onto the abstract lifecycle state.
// States where the process is up or heading up are active.
var stateMap = map[string]domain.ContainerState{
	"created":    domain.ContainerStateInactive,
	"restarting": domain.ContainerStateActive,
	"running":    domain.ContainerStateActive,
	"removing":   domain.ContainerStateActive,
	"paused":     domain.ContainerStateInactive,
	"exited":     domain.ContainerStateInactive,
	"dead":       domain.ContainerStateInactive,
}

// MapState returns the abstract state for a Docker state string.
// Unknown states are an error, never a silent default.
func MapState(status string) (domain.ContainerState, error) {
	state, ok := stateMap[status]
	if !ok {
		return "", fmt.Errorf("unknown container status %q", status)
	}
	return state, nil
}
