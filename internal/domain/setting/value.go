package setting

import (
	"context"
	"database/sql/driver"
	"strconv"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// JSONValue is a JSON-encoded setting value. SQLite keeps it in a TEXT column
// so numbers are not coerced to INTEGER or REAL on write.
type JSONValue datatypes.JSON

func (v JSONValue) Value() (driver.Value, error) { return datatypes.JSON(v).Value() }

// Scan also accepts numeric cells written by older schemas.
func (v *JSONValue) Scan(src any) error {
	switch n := src.(type) {
	case int64:
		*v = JSONValue(strconv.FormatInt(n, 10))
		return nil
	case float64:
		*v = JSONValue(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	var j datatypes.JSON
	if err := j.Scan(src); err != nil {
		return err
	}
	*v = JSONValue(j)
	return nil
}

func (v JSONValue) MarshalJSON() ([]byte, error) { return datatypes.JSON(v).MarshalJSON() }

func (v *JSONValue) UnmarshalJSON(b []byte) error {
	var j datatypes.JSON
	err := j.UnmarshalJSON(b)
	*v = JSONValue(j)
	return err
}

func (v JSONValue) String() string { return string(v) }

func (JSONValue) GormDataType() string { return "json" }

func (JSONValue) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "sqlite" {
		return "text"
	}
	return datatypes.JSON(nil).GormDBDataType(db, field)
}

func (v JSONValue) GormValue(ctx context.Context, db *gorm.DB) clause.Expr {
	return datatypes.JSON(v).GormValue(ctx, db)
}
