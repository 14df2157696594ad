package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	BackupType      = "complete_system_backup"
	ManifestVersion = "1.0"
	TimestampLayout = "20060102_150405"

	TypeCategories   = "categories"
	TypePatrons      = "patrons"
	TypeBooks        = "books"
	TypeTransactions = "transactions"
)

// FileTypes is the fixed restore order.
var FileTypes = []string{TypeCategories, TypePatrons, TypeBooks, TypeTransactions}

var ErrInvalidManifest = errors.New("invalid backup manifest")

type ManifestFile struct {
	Filename     string   `json:"filename"`
	Type         string   `json:"type"`
	Description  string   `json:"description"`
	RecordCount  int      `json:"record_count"`
	ImportOrder  int      `json:"import_order"`
	Dependencies []string `json:"dependencies"`
}

type Summary struct {
	TotalCategories   int `json:"total_categories"`
	TotalPatrons      int `json:"total_patrons"`
	TotalBooks        int `json:"total_books"`
	TotalTransactions int `json:"total_transactions"`
}

type Manifest struct {
	BackupType          string         `json:"backup_type"`
	Timestamp           string         `json:"timestamp"`
	Version             string         `json:"version"`
	TotalFiles          int            `json:"total_files"`
	Files               []ManifestFile `json:"files"`
	RestoreInstructions []string       `json:"restore_instructions"`
	BackupSummary       Summary        `json:"backup_summary"`
}

// ManifestError carries every problem found in a manifest.
type ManifestError struct{ Problems []string }

func (e *ManifestError) Error() string {
	return ErrInvalidManifest.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ManifestError) Unwrap() error { return ErrInvalidManifest }

var fileMeta = map[string]struct {
	description string
	deps        []string
}{
	TypeCategories:   {"Book categories - import FIRST", []string{}},
	TypePatrons:      {"Library patrons - import SECOND", []string{TypeCategories}},
	TypeBooks:        {"Book collection - import THIRD", []string{TypeCategories}},
	TypeTransactions: {"Transaction history - import FOURTH", []string{TypePatrons, TypeBooks}},
}

func FileName(kind, ts string) string { return fmt.Sprintf("system_backup_%s_%s.csv", kind, ts) }

func ManifestName(ts string) string { return fmt.Sprintf("system_backup_manifest_%s.json", ts) }

func newManifest(ts string, counts map[string]int) *Manifest {
	m := &Manifest{
		BackupType: BackupType,
		Timestamp:  ts,
		Version:    ManifestVersion,
		TotalFiles: len(FileTypes),
		RestoreInstructions: []string{
			"1. Import categories first (creates foundation)",
			"2. Import patrons second",
			"3. Import books third (needs categories for reference)",
			"4. Import transactions last (needs patrons and books)",
		},
		BackupSummary: Summary{
			TotalCategories:   counts[TypeCategories],
			TotalPatrons:      counts[TypePatrons],
			TotalBooks:        counts[TypeBooks],
			TotalTransactions: counts[TypeTransactions],
		},
	}
	for i, kind := range FileTypes {
		meta := fileMeta[kind]
		m.Files = append(m.Files, ManifestFile{
			Filename:     FileName(kind, ts),
			Type:         kind,
			Description:  meta.description,
			RecordCount:  counts[kind],
			ImportOrder:  i + 1,
			Dependencies: meta.deps,
		})
	}
	return m
}

// ParseManifest decodes and validates a manifest. Presence is checked on the
// raw document so a missing field is told apart from a zero value.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ManifestError{Problems: []string{"not a JSON object: " + err.Error()}}
	}
	var problems []string
	for _, field := range []string{"backup_type", "timestamp", "version", "total_files", "files", "restore_instructions"} {
		if _, ok := raw[field]; !ok {
			problems = append(problems, "missing required field: "+field)
		}
	}
	if len(problems) > 0 {
		return nil, &ManifestError{Problems: problems}
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &ManifestError{Problems: []string{err.Error()}}
	}
	var rawFiles []map[string]json.RawMessage
	if err := json.Unmarshal(raw["files"], &rawFiles); err != nil {
		return nil, &ManifestError{Problems: []string{"files: " + err.Error()}}
	}
	for _, f := range rawFiles {
		if _, ok := f["import_order"]; !ok {
			var name string
			_ = json.Unmarshal(f["filename"], &name)
			if name == "" {
				name = "unknown"
			}
			problems = append(problems, "missing import_order for file: "+name)
		}
	}
	problems = append(problems, m.Validate()...)
	if len(problems) > 0 {
		return nil, &ManifestError{Problems: problems}
	}
	return &m, nil
}

// Validate checks the structural rules a restorable manifest must meet.
func (m *Manifest) Validate() []string {
	var problems []string
	if m.TotalFiles != len(FileTypes) {
		problems = append(problems, fmt.Sprintf("manifest must contain exactly %d files for complete restoration", len(FileTypes)))
	}
	seen := map[string]bool{}
	for _, f := range m.Files {
		seen[f.Type] = true
		if strings.ContainsAny(f.Filename, `/\`) || f.Filename == "" {
			problems = append(problems, fmt.Sprintf("invalid filename for %s file: %q", f.Type, f.Filename))
		}
	}
	for _, kind := range FileTypes {
		if !seen[kind] {
			problems = append(problems, "missing file type: "+kind)
		}
	}
	return problems
}

// Ordered returns the files sorted by import_order.
func (m *Manifest) Ordered() []ManifestFile {
	out := append([]ManifestFile(nil), m.Files...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ImportOrder < out[j].ImportOrder })
	return out
}
