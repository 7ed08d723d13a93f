package models

import "time"

// ApiLog is one append-only row per admission attempt that reached (or
// failed) the upstream call. Never updated or deleted by the gate.
type ApiLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;index:idx_api_logs_project_created,priority:1" json:"project_id"`
	Project   Project   `json:"-"`
	Endpoint  string    `gorm:"type:varchar(100);not null" json:"endpoint"`
	Status    int       `gorm:"not null" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_api_logs_project_created,priority:2" json:"created_at"`
}
