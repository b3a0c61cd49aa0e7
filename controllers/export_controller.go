package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/whatsons/members-api/config"
	"github.com/whatsons/members-api/models"
	"github.com/whatsons/members-api/storage"
)

type ExportController struct {
	store storage.Store
	cfg   *config.Config
	log   zerolog.Logger
}

func NewExportController(store storage.Store, cfg *config.Config, log zerolog.Logger) *ExportController {
	return &ExportController{store: store, cfg: cfg, log: log}
}

type ExportReq struct {
	Resource string `json:"resource" binding:"required,oneof=users participants"`
	Format   string `json:"format" binding:"omitempty,oneof=csv xlsx"`
	EventID  *uint  `json:"eventId"`
}

// POST /api/admin/export
//
// Queues an export job and processes it in the background; the client polls
// GET /api/admin/export/:job_id for the file.
func (ec *ExportController) CreateExport(c *gin.Context) {
	var req ExportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid export request", "error": err.Error()})
		return
	}
	if req.Format == "" {
		req.Format = "csv"
	}
	if req.Resource == models.ExportResourceParticipants && req.EventID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "eventId is required for participant exports"})
		return
	}

	job := models.ExportJob{
		JobID:    uuid.New().String(),
		Resource: req.Resource,
		EventID:  req.EventID,
		Format:   req.Format,
		Status:   models.ExportStatusQueued,
	}
	if err := ec.store.CreateExportJob(&job); err != nil {
		ec.log.Error().Err(err).Msg("create export job failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create export job"})
		return
	}

	go ec.processExportJob(job.JobID)

	c.JSON(http.StatusAccepted, gin.H{
		"jobId":  job.JobID,
		"status": job.Status,
	})
}

// GET /api/admin/export/:job_id
func (ec *ExportController) GetExport(c *gin.Context) {
	job, err := ec.store.GetExportJob(c.Param("job_id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Export job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load export job"})
		return
	}

	if job.Status == models.ExportStatusDone && job.FilePath != nil {
		c.FileAttachment(*job.FilePath, path.Base(*job.FilePath))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobId":  job.JobID,
		"status": job.Status,
		"error":  job.ErrorMsg,
	})
}

func (ec *ExportController) processExportJob(jobID string) {
	job, err := ec.store.GetExportJob(jobID)
	if err != nil {
		return
	}

	job.Status = models.ExportStatusProcessing
	ec.store.UpdateExportJob(job)

	outPath, err := ec.writeExport(job)
	if err != nil {
		msg := err.Error()
		job.Status = models.ExportStatusFailed
		job.ErrorMsg = &msg
		ec.store.UpdateExportJob(job)
		ec.log.Error().Err(err).Str("job_id", jobID).Msg("export job failed")
		return
	}

	job.Status = models.ExportStatusDone
	job.FilePath = &outPath
	ec.store.UpdateExportJob(job)
}

func (ec *ExportController) writeExport(job *models.ExportJob) (string, error) {
	header, rows, err := ec.exportRows(job)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(ec.cfg.Export.Dir, 0o755); err != nil {
		return "", err
	}
	outPath := path.Join(ec.cfg.Export.Dir, fmt.Sprintf("export_%s.%s", job.JobID, job.Format))

	if job.Format == "xlsx" {
		return outPath, writeXLSX(outPath, header, rows)
	}
	return outPath, writeCSV(outPath, header, rows)
}

// exportRows returns the header plus one row per record, in the same order
// the listing endpoints return them.
func (ec *ExportController) exportRows(job *models.ExportJob) ([]string, [][]string, error) {
	switch job.Resource {
	case models.ExportResourceUsers:
		users, err := ec.store.ListUsers()
		if err != nil {
			return nil, nil, err
		}
		header := []string{"id", "username", "first_name", "last_name", "email", "phone", "city", "occupation", "role", "is_approved", "is_active"}
		rows := make([][]string, 0, len(users))
		for _, u := range users {
			rows = append(rows, []string{
				fmt.Sprintf("%d", u.ID),
				u.Username,
				u.FirstName,
				u.LastName,
				u.Email,
				u.Phone,
				u.City,
				u.Occupation,
				u.Role,
				fmt.Sprintf("%t", u.IsApproved),
				fmt.Sprintf("%t", u.IsActive),
			})
		}
		return header, rows, nil

	case models.ExportResourceParticipants:
		participants, err := ec.store.ListEventParticipants(*job.EventID)
		if err != nil {
			return nil, nil, err
		}
		header := []string{"id", "user_id", "status", "is_approved", "room_type", "room_occupancy", "payment_status"}
		rows := make([][]string, 0, len(participants))
		for _, p := range participants {
			roomType := ""
			if p.RoomType != nil {
				roomType = *p.RoomType
			}
			occupancy := ""
			if p.RoomOccupancy != nil {
				occupancy = fmt.Sprintf("%d", *p.RoomOccupancy)
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", p.ID),
				fmt.Sprintf("%d", p.UserID),
				p.Status,
				fmt.Sprintf("%t", p.IsApproved),
				roomType,
				occupancy,
				p.PaymentStatus,
			})
		}
		return header, rows, nil
	}
	return nil, nil, fmt.Errorf("unknown export resource %q", job.Resource)
}

func writeCSV(outPath string, header []string, rows [][]string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeXLSX(outPath string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, cell := range header {
		name, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, name, cell); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for i, cell := range row {
			name, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, name, cell); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(outPath)
}
