package backup

// RowError reports one rejected input row; Row counts data rows from 1.
type RowError struct {
	Row     int    `json:"row"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

type ImportReport struct {
	Type    string     `json:"type"`
	Total   int        `json:"total"`
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Errors  []RowError `json:"errors"`
}

func (r *ImportReport) fail(row int, key string, err error) {
	r.Errors = append(r.Errors, RowError{Row: row, Key: key, Message: err.Error()})
}

func (r *ImportReport) count(created bool) {
	if created {
		r.Created++
	} else {
		r.Updated++
	}
}

type ExportResult struct {
	Dir          string    `json:"dir"`
	ManifestFile string    `json:"manifest_file"`
	Manifest     *Manifest `json:"manifest"`
}

type RestoreResult struct {
	Manifest *Manifest      `json:"manifest"`
	Reports  []ImportReport `json:"reports"`
}

// Mode separates a restore from a user bulk upload.
type Mode int

const (
	// ModeUpload is a user-supplied sheet: patrons get the default password.
	ModeUpload Mode = iota
	// ModeRestore replays an export: stored credentials and statuses are kept.
	ModeRestore
)
