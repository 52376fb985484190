package templates

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/user/missions-helper/pkg/conclusion"
	"github.com/user/missions-helper/pkg/report"
)

// ErrSV2MTemplate rejects template saves for SV2M reports. SV2M conclusions
// are too case-specific to reuse; those missions are draft-only.
var ErrSV2MTemplate = errors.New("templates: SV2M reports cannot be saved as templates, save a draft instead")

// ConfirmationRequired is returned, without writing anything, when a
// template save would overwrite curated content. The caller shows the diff
// and re-invokes with overwrite set.
type ConfirmationRequired struct {
	Path     string
	Existing string
	Diff     string
}

const draftMappingFile = "draft_mapping.json"

// SaveTemplate persists the working document as a reusable template under
// <writeRoot>/<category>/<name>.txt. Only the selected conclusion section
// is taken from doc; a conclusion of the other type already on disk is
// preserved unmodified. Returns ConfirmationRequired when the destination
// exists and overwrite is false.
func (r *Resolver) SaveTemplate(category, name string, doc *report.Document, concl report.Section, class conclusion.Classification, overwrite bool) (*ConfirmationRequired, error) {
	if class == conclusion.SV2M {
		return nil, ErrSV2MTemplate
	}

	dir := filepath.Join(r.WriteRoot(), category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StorageError{Path: dir, Err: err}
	}
	path := filepath.Join(dir, name+".txt")

	existing, exists, err := readIfExists(path)
	if err != nil {
		return nil, err
	}

	content := mergeOnDisk(existing, doc, concl)
	if exists && !overwrite {
		return &ConfirmationRequired{
			Path:     path,
			Existing: existing,
			Diff:     lineDiff(existing, content),
		}, nil
	}

	if err := writeFileAtomic(path, content); err != nil {
		return nil, err
	}
	return nil, nil
}

// SaveDraft persists the working document as the single draft slot for a
// mission, under <writeRoot>/drafts/<listing>/. Always permitted for any
// classification; overwrites silently. When title is non-empty the file is
// named by its slug and a mapping file records the mission-id association
// so the draft can be found either way.
func (r *Resolver) SaveDraft(listing, missionID, title string, doc *report.Document, concl report.Section) (string, error) {
	dir := filepath.Join(r.WriteRoot(), "drafts", listing)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &StorageError{Path: dir, Err: err}
	}

	name := missionID
	if slug := Slug(title); slug != "" {
		name = slug
		if err := r.recordDraftMapping(dir, missionID, slug); err != nil {
			return "", err
		}
	}
	path := filepath.Join(dir, name+".txt")

	existing, _, err := readIfExists(path)
	if err != nil {
		return "", err
	}
	if err := writeFileAtomic(path, mergeOnDisk(existing, doc, concl)); err != nil {
		return "", err
	}
	return path, nil
}

// FindDraft locates the draft file for a mission, honoring the title-slug
// mapping with a plain mission-id fallback. Returns "" when no draft
// exists.
func (r *Resolver) FindDraft(listing, missionID string) string {
	dir := filepath.Join(r.WriteRoot(), "drafts", listing)

	name := missionID
	if data, err := os.ReadFile(filepath.Join(dir, draftMappingFile)); err == nil {
		var mapping map[string]string
		if json.Unmarshal(data, &mapping) == nil {
			if mapped, ok := mapping[missionID]; ok {
				name = mapped
			}
		}
	}

	for _, candidate := range []string{name, missionID} {
		p := filepath.Join(dir, candidate+".txt")
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// LoadDraft parses the draft for a mission. Returns ErrNotFound when none
// exists.
func (r *Resolver) LoadDraft(listing, missionID string) (*report.Document, error) {
	path := r.FindDraft(listing, missionID)
	if path == "" {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Path: path, Err: err}
	}
	return report.Parse(string(data)), nil
}

func (r *Resolver) recordDraftMapping(dir, missionID, slug string) error {
	path := filepath.Join(dir, draftMappingFile)
	mapping := map[string]string{}
	if data, err := os.ReadFile(path); err == nil {
		// A corrupt mapping file is rebuilt rather than fatal.
		_ = json.Unmarshal(data, &mapping)
	}
	mapping[missionID] = slug
	mapping[slug] = missionID

	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return &StorageError{Path: path, Err: err}
	}
	return writeFileAtomic(path, string(data))
}

// mergeOnDisk folds the working copy into whatever is already stored so the
// non-materialized conclusion survives the save.
func mergeOnDisk(existing string, doc *report.Document, concl report.Section) string {
	merged := report.Parse(existing)
	for _, s := range []report.Section{
		report.SectionIntroduction,
		report.SectionTesting,
		report.SectionDocumentation,
		report.SectionScripts,
	} {
		if body, ok := doc.Get(s); ok {
			merged.Set(s, body)
		}
	}
	if body, ok := doc.Get(concl); ok && concl.IsConclusion() {
		merged.Set(concl, body)
	}
	return report.SerializeAll(merged)
}

// Slug normalizes a mission title for filesystem use.
func Slug(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "/", "_")
	var b strings.Builder
	for _, r := range s {
		if r == '_' || r == '-' ||
			(r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// writeFileAtomic writes to a temp file in the target directory and
// renames, so a failed write never leaves a truncated file.
func writeFileAtomic(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return &StorageError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StorageError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StorageError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &StorageError{Path: path, Err: err}
	}
	return nil
}

func readIfExists(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, &StorageError{Path: path, Err: err}
	}
	return string(data), true, nil
}

// lineDiff renders a +/- line diff of the pending overwrite for review.
func lineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(beforeChars, afterChars, false), lineArray)

	var b strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range splitDiffLines(d.Text) {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func splitDiffLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
