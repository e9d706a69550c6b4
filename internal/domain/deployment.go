package domain

// DefaultPortProtocol is used for port bindings that do not declare a protocol.
const DefaultPortProtocol = "tcp"

// DeploymentConfig describes how a service container is created.
type DeploymentConfig struct {
	Image   string            `json:"image"`
	Volumes map[string]string `json:"volumes"` // volume name -> mount path
	Devices map[string]string `json:"devices"` // host device -> container path
	Ports   []PortBinding     `json:"ports"`
}

// PortBinding publishes a container port on the host.
// A zero HostPort lets the engine choose one.
type PortBinding struct {
	ContainerPort int    `json:"container"`
	Protocol      string `json:"protocol"`
	HostPort      int    `json:"host"`
}

// ProtocolOrDefault returns the binding protocol, falling back to tcp.
func (p PortBinding) ProtocolOrDefault() string {
	if p.Protocol == "" {
		return DefaultPortProtocol
	}
	return p.Protocol
}

// ServiceSpec is the desired state of one service as published by the registry.
type ServiceSpec struct {
	Deployment DeploymentConfig  `json:"deployment_configs"`
	Env        map[string]string `json:"service_configs"`
}
