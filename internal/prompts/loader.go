// Package prompts holds the post-generation templates. Each *.json file in
// this directory maps template keys to text with {{.Key}} placeholders and is
// compiled into the binary.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var templateFS embed.FS

// parsed holds decoded template files by name.
var (
	parsed   = make(map[string]map[string]string)
	parsedMu sync.RWMutex
)

// Get returns template key from file, e.g. Get("social.json", "platform-post").
func Get(file, key string) (string, error) {
	templates, err := load(file)
	if err != nil {
		return "", err
	}

	text, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, file)
	}
	return text, nil
}

// MustGet is Get for templates shipped with the binary; a miss panics.
func MustGet(file, key string) string {
	text, err := Get(file, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return text
}

// Format fills {{.Key}} placeholders from data in one pass. A value that
// itself looks like a placeholder is left as written.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func load(file string) (map[string]string, error) {
	parsedMu.RLock()
	templates, ok := parsed[file]
	parsedMu.RUnlock()
	if ok {
		return templates, nil
	}

	data, err := templateFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", file, err)
	}
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", file, err)
	}

	parsedMu.Lock()
	parsed[file] = templates
	parsedMu.Unlock()
	return templates, nil
}

// ClearCache drops decoded files so the next Get re-reads them.
func ClearCache() {
	parsedMu.Lock()
	parsed = make(map[string]map[string]string)
	parsedMu.Unlock()
}

// List returns the template keys defined in file, sorted.
func List(file string) ([]string, error) {
	templates, err := load(file)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(templates))
	for key := range templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
