// Package tools loads the flat tool inventory kept in tools/tools.txt
// under the template roots.
package tools

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/user/missions-helper/pkg/templates"
)

// ParseTools splits tools.txt content into name->snippet blocks delimited
// by [name] lines. Unlike report sections the name set is open; any
// bracketed line starts a block.
func ParseTools(content string) map[string]string {
	tools := make(map[string]string)

	var (
		name string
		open bool
		body []string
	)
	flush := func() {
		if open {
			tools[name] = strings.TrimSpace(strings.Join(body, "\n"))
			body = body[:0]
		}
	}
	for _, line := range strings.Split(content, "\n") {
		if len(line) >= 2 && line[0] == '[' && line[len(line)-1] == ']' {
			flush()
			name = strings.TrimSpace(line[1 : len(line)-1])
			open = name != ""
			continue
		}
		if open {
			body = append(body, line)
		}
	}
	flush()
	return tools
}

// Load reads tools.txt with the usual precedence: the override root's copy
// when present, else the bundled one. A missing file is an empty inventory,
// not an error.
func Load(r *templates.Resolver) (map[string]string, error) {
	candidates := []string{}
	if r.OverrideRoot != "" {
		candidates = append(candidates, filepath.Join(r.OverrideRoot, "tools", "tools.txt"))
	}
	candidates = append(candidates, filepath.Join(r.BundledRoot, "tools", "tools.txt"))

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, &templates.StorageError{Path: path, Err: err}
		}
		return ParseTools(string(data)), nil
	}
	return map[string]string{}, nil
}
