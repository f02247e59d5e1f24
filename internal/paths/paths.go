// Package paths resolves the jellycache state directories.
//
// When running under sudo, paths resolve to the invoking user's home
// (via SUDO_USER) rather than root's.
package paths

import (
	"os"
	"os/user"
	"path/filepath"
)

// AppName is the directory name used under the user config dir.
const AppName = "jellycache"

// UserHomeDir returns the home directory of the actual user.
func UserHomeDir() (string, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		u, err := user.Lookup(sudoUser)
		if err == nil {
			return u.HomeDir, nil
		}
		// Fall through if lookup fails
	}

	return os.UserHomeDir()
}

// AppDir returns ~/.config/jellycache for the actual user.
func AppDir() (string, error) {
	home, err := UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

func inAppDir(elem ...string) (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir}, elem...)...), nil
}

// ConfigPath returns the path to config.toml.
func ConfigPath() (string, error) {
	return inAppDir("config.toml")
}

// DatabasePath returns the path to the variant registry database.
func DatabasePath() (string, error) {
	return inAppDir("variants.db")
}

// LogPath returns the default log file path.
func LogPath() (string, error) {
	return inAppDir("logs", AppName+".log")
}
