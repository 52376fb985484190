// Package templates resolves report templates across a user override
// directory and the bundled defaults, and coordinates draft and template
// persistence.
package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/user/missions-helper/pkg/report"
)

// ErrNotFound means neither the override nor the bundled root holds the
// requested template. Callers typically fall back to an empty section.
var ErrNotFound = errors.New("templates: template not found in override or bundled root")

// StorageError reports a filesystem failure with the path that was being
// written or read.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("templates: storage failure at %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// scaffoldDirs is the fixed directory skeleton expected under each root.
var scaffoldDirs = []string{
	"default",
	"web",
	"host",
	filepath.Join("ai_prompts", "global"),
	"tools",
}

// Resolver locates template files. OverrideRoot is the user-managed
// directory and wins for reads; all writes target it when configured.
// With no override root the bundled root serves both, a degraded but valid
// single-user mode.
type Resolver struct {
	BundledRoot  string
	OverrideRoot string
}

// NewResolver returns a resolver over the two roots. overrideRoot may be
// empty.
func NewResolver(bundledRoot, overrideRoot string) *Resolver {
	return &Resolver{BundledRoot: bundledRoot, OverrideRoot: overrideRoot}
}

// WriteRoot is where every save lands.
func (r *Resolver) WriteRoot() string {
	if r.OverrideRoot != "" {
		return r.OverrideRoot
	}
	return r.BundledRoot
}

// Resolve returns the path supplying category/name.txt: the override root
// when the file exists there, otherwise the bundled root, otherwise
// ErrNotFound.
func (r *Resolver) Resolve(category, name string) (string, error) {
	file := name + ".txt"
	if r.OverrideRoot != "" {
		p := filepath.Join(r.OverrideRoot, category, file)
		if fileExists(p) {
			return p, nil
		}
	}
	p := filepath.Join(r.BundledRoot, category, file)
	if fileExists(p) {
		return p, nil
	}
	return "", fmt.Errorf("%w: %s/%s", ErrNotFound, category, file)
}

// Scaffold ensures the directory skeleton exists under both roots. It is
// idempotent and never touches existing content.
func (r *Resolver) Scaffold() error {
	roots := []string{r.BundledRoot}
	if r.OverrideRoot != "" {
		roots = append(roots, r.OverrideRoot)
	}
	for _, root := range roots {
		for _, dir := range scaffoldDirs {
			p := filepath.Join(root, dir)
			if err := os.MkdirAll(p, 0o755); err != nil {
				return &StorageError{Path: p, Err: err}
			}
		}
	}
	return nil
}

// LoadTemplate resolves and parses a template. The returned path reports
// which root supplied it.
func (r *Resolver) LoadTemplate(category, name string) (*report.Document, string, error) {
	path, err := r.Resolve(category, name)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", &StorageError{Path: path, Err: err}
	}
	return report.Parse(string(data)), path, nil
}

// TemplateInfo describes one selectable default template.
type TemplateInfo struct {
	Name        string
	DisplayName string
	Path        string
}

// ListDefaults enumerates default/*.txt templates, preferring the override
// root's default directory when it exists.
func (r *Resolver) ListDefaults() ([]TemplateInfo, error) {
	dir := filepath.Join(r.BundledRoot, "default")
	if r.OverrideRoot != "" {
		cand := filepath.Join(r.OverrideRoot, "default")
		if dirExists(cand) {
			dir = cand
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StorageError{Path: dir, Err: err}
	}

	var out []TemplateInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".txt")
		out = append(out, TemplateInfo{
			Name:        name,
			DisplayName: displayName(name),
			Path:        filepath.Join(dir, e.Name()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func displayName(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
