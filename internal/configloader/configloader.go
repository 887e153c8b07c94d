package configloader

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvConfig names an explicit config file overriding path resolution.
const EnvConfig = "DYSPATCH_CONFIG"

// systemDir is where system-wide configuration lives.
var systemDir = "/etc/dyspatch"

// ResolveConfigPath returns the best config path for a given subsystem and filename.
// It checks, in order:
// 1. $DYSPATCH_CONFIG if set and file is the main config file
// 2. ~/.dyspatch/<subsystem>/<file>
// 3. /etc/dyspatch/<file>
func ResolveConfigPath(subsystem, file string) (string, error) {
	if env := os.Getenv(EnvConfig); env != "" && file == "config.yaml" {
		return env, nil
	}
	if home, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(home, ".dyspatch", subsystem, file)
		if _, err := os.Stat(userPath); err == nil {
			return userPath, nil
		}
	}
	systemPath := filepath.Join(systemDir, file)
	if _, err := os.Stat(systemPath); err == nil {
		return systemPath, nil
	}
	return "", fmt.Errorf("no config found for %s/%s", subsystem, file)
}
