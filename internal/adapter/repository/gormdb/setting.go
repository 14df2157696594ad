package gormdb

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"library-circulation/internal/domain/setting"
)

type SettingRepository struct{ db *gorm.DB }

func NewSettingRepository(db *gorm.DB) *SettingRepository { return &SettingRepository{db: db} }

func (r *SettingRepository) List(ctx context.Context) ([]setting.Setting, error) {
	var out []setting.Setting
	return out, r.db.WithContext(ctx).Order("setting_key ASC").Find(&out).Error
}

func (r *SettingRepository) Get(ctx context.Context, key string) (*setting.Setting, error) {
	var out setting.Setting
	if err := r.db.WithContext(ctx).Where("setting_key = ?", key).Take(&out).Error; err != nil {
		return nil, translate(err, setting.ErrUnknownKey, nil)
	}
	return &out, nil
}

// Put inserts or overwrites a value; an empty description keeps the stored one.
func (r *SettingRepository) Put(ctx context.Context, key string, value setting.JSONValue, description string) error {
	updates := []string{"setting_value", "updated_at"}
	if description != "" {
		updates = append(updates, "description")
	}
	row := setting.Setting{SettingKey: key, SettingValue: value, Description: description}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(&row).Error
}

func (r *SettingRepository) SeedMissing(ctx context.Context, rows []setting.Setting) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoNothing: true,
	}).Create(&rows)
	return int(res.RowsAffected), res.Error
}
