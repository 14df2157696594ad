package setting

import (
	"encoding/json"
	"errors"
	"time"

	"library-circulation/internal/domain/patron"
)

const (
	KeyFinePerDay     = "fine_per_day"
	KeyLibraryName    = "library_name"
	KeyLibrarianEmail = "librarian_email"
)

var ErrUnknownKey = errors.New("unknown setting key")

func DueDaysKey(t patron.Type) string  { return string(t) + "_due_days" }
func MaxBooksKey(t patron.Type) string { return string(t) + "_max_books" }

type Setting struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"id"`
	SettingKey   string         `gorm:"size:100;not null;uniqueIndex:ux_library_settings_key" json:"setting_key"`
	SettingValue JSONValue `gorm:"not null" json:"setting_value"`
	Description  string         `gorm:"type:text" json:"description"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string { return "library_settings" }

type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDecimal
)

type Default struct {
	Key         string
	Value       any
	Kind        Kind
	Description string
}

// Defaults are seeded on first run and used whenever a key is missing.
var Defaults = []Default{
	{KeyFinePerDay, 1.0, KindDecimal, "Fine amount per day for overdue books"},
	{DueDaysKey(patron.TypeStudent), 14, KindInt, "Default due days for students"},
	{DueDaysKey(patron.TypeFaculty), 30, KindInt, "Default due days for faculty"},
	{DueDaysKey(patron.TypeStaff), 21, KindInt, "Default due days for staff"},
	{MaxBooksKey(patron.TypeStudent), 3, KindInt, "Maximum books for students"},
	{MaxBooksKey(patron.TypeFaculty), 5, KindInt, "Maximum books for faculty"},
	{MaxBooksKey(patron.TypeStaff), 4, KindInt, "Maximum books for staff"},
	{KeyLibraryName, "Library", KindString, "Library name"},
	{KeyLibrarianEmail, "library@example.com", KindString, "Librarian contact email"},
}

func Lookup(key string) (Default, bool) {
	for _, d := range Defaults {
		if d.Key == key {
			return d, true
		}
	}
	return Default{}, false
}

func (d Default) Row() Setting {
	b, _ := json.Marshal(d.Value)
	return Setting{SettingKey: d.Key, SettingValue: JSONValue(b), Description: d.Description}
}
