package domain

import (
	"maps"
	"slices"
)

// Runtime environment keys injected into every service container.
const (
	EnvGatewayLocalIP = "GATEWAY_LOCAL_IP"
	EnvComponentID    = "COMPONENT_ID"
)

// MergeEnv merges the service-level environment with the runtime-injected one.
// Runtime values win on overlapping keys. A nil result means no environment.
func MergeEnv(serviceEnv, runtimeEnv map[string]string) map[string]string {
	if len(serviceEnv) == 0 && len(runtimeEnv) == 0 {
		return nil
	}

	merged := make(map[string]string, len(serviceEnv)+len(runtimeEnv))
	maps.Copy(merged, serviceEnv)
	maps.Copy(merged, runtimeEnv)
	return merged
}

// EnvList renders an environment map as sorted KEY=VALUE pairs.
func EnvList(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}

	list := make([]string, 0, len(env))
	for _, key := range slices.Sorted(maps.Keys(env)) {
		list = append(list, key+"="+env[key])
	}
	return list
}
