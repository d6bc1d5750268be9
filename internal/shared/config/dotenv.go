package config

import (
	"bufio"
	"os"
	"strings"
)

// loadEnvFiles exports KEY=VALUE pairs from any of the given files that
// exist. Blank lines, comments, and malformed lines are skipped; this only
// backs local development, so errors are swallowed.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			key, value, ok := strings.Cut(line, "=")
			if !ok {
				continue
			}
			key = strings.TrimSpace(key)
			value = strings.Trim(strings.TrimSpace(value), `"`)
			if key != "" {
				os.Setenv(key, value)
			}
		}
		_ = f.Close()
	}
}
