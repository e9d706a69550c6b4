package domain

import "fmt"

// VolumeName returns the composite name of a volume owned by a container.
func VolumeName(containerName, volumeName string) string {
	return fmt.Sprintf("%s_%s", containerName, volumeName)
}
