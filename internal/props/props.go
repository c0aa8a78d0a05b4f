// Package props fetches and parses Android system properties.
package props

import (
	"fmt"
	"os"
	"strings"
)

// Map holds device properties keyed by property name. It is rebuilt wholesale
// on every fetch; there is no incremental update.
type Map map[string]string

// Shell runs a remote shell command on the device and returns its output.
type Shell interface {
	Shell(command string) (string, error)
}

// Fetch retrieves all system properties from the device via getprop. The
// second return is the count of lines that did not parse.
func Fetch(br Shell) (Map, int, error) {
	out, err := br.Shell("getprop")
	if err != nil {
		return nil, 0, fmt.Errorf("getprop: %w", err)
	}
	m, skipped := Parse(out)
	return m, skipped, nil
}

// LoadFile parses a saved getprop dump. Used as a static fallback when no
// device is reachable.
func LoadFile(path string) (Map, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	m, skipped := Parse(string(data))
	return m, skipped, nil
}

// Parse reads getprop-style output, lines of the form "[key]: [value]".
// The split is on the first "]: [" occurrence so values may contain brackets.
// Non-empty lines not matching the shape are skipped and counted.
func Parse(out string) (Map, int) {
	m := make(Map)
	skipped := 0
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.Index(line, "]: [")
		if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") || idx < 1 {
			skipped++
			continue
		}
		key := line[1:idx]
		if key == "" {
			skipped++
			continue
		}
		m[key] = line[idx+4 : len(line)-1]
	}
	return m, skipped
}

// lookup returns the first non-empty, non-"unknown" value among the given
// property keys.
func (m Map) lookup(keys ...string) string {
	for _, k := range keys {
		v := strings.TrimSpace(m[k])
		if v != "" && !strings.EqualFold(v, "unknown") {
			return v
		}
	}
	return ""
}
