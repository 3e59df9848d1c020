package pack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extension is the file extension of a package.
const Extension = ".eupak"

// PathForExecutable returns the package path for the executable at exe:
// the same directory and base name, with the package extension.
func PathForExecutable(exe string) string {
	base := strings.TrimSuffix(filepath.Base(exe), ".exe")
	return filepath.Join(filepath.Dir(exe), base+Extension)
}

// Locate returns the package path next to the running executable.
func Locate() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	return PathForExecutable(exe), nil
}

// ReadFile reads and decodes the package at path.
func ReadFile(path string) (*RuntimeData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s was not found at %s, which is required to start the game", filepath.Base(path), filepath.Dir(path))
		}
		return nil, err
	}

	data, _, err := Decode(b)
	if err != nil {
		return nil, err
	}
	return data, nil
}
