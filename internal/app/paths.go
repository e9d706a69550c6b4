// Package app provides the application initialization and wiring.
package app

import (
	"github.com/spf13/viper"
)

// DefaultDataDir is where logs are written when no data_dir is configured.
const DefaultDataDir = "./storage"

// ConfigureViper sets up viper with standard config file search paths.
// Config file: gateway-core.yaml
// Search paths (in order): current directory, ~/.config/gateway-core, /etc/gateway-core
func ConfigureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("gateway-core")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/gateway-core")
		v.AddConfigPath("/etc/gateway-core")
	}
}
