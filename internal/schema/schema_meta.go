package schema

import "time"

// SchemaMeta 记录数据库 schema 版本，作为升级门闸，
// 避免仅靠 AutoMigrate 导致升级不可控。表内仅一行（ID=1）。
type SchemaMeta struct {
	ID            int       `gorm:"primaryKey"`
	SchemaVersion int       `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (SchemaMeta) TableName() string {
	return "schema_meta"
}
