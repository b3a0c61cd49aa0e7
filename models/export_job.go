package models

import "time"

const (
	ExportResourceUsers        = "users"
	ExportResourceParticipants = "participants"

	ExportStatusQueued     = "queued"
	ExportStatusProcessing = "processing"
	ExportStatusDone       = "done"
	ExportStatusFailed     = "failed"
)

type ExportJob struct {
	JobID     string    `gorm:"column:job_id;primaryKey;size:36" json:"jobId"`
	Resource  string    `gorm:"column:resource;size:20;not null" json:"resource"` // users | participants
	EventID   *uint     `gorm:"column:event_id" json:"eventId,omitempty"`
	Format    string    `gorm:"column:format;size:10;not null" json:"format"` // csv | xlsx
	Status    string    `gorm:"column:status;size:20;default:'queued'" json:"status"`
	FilePath  *string   `gorm:"column:file_path;type:text" json:"filePath,omitempty"`
	ErrorMsg  *string   `gorm:"column:error_msg;type:text" json:"errorMsg,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (ExportJob) TableName() string {
	return "export_jobs"
}
