package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"barberm/internal/logging"
	"barberm/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Appointments"

// Exporter writes appointment workbooks under the configured export path.
type Exporter struct {
	path   string
	logger zerolog.Logger
}

func NewExporter(path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{
		path:   path,
		logger: logging.Component(logger, "export"),
	}
}

// Appointments writes one xlsx workbook with a row per appointment and
// returns the path of the saved file.
func (e *Exporter) Appointments(appointments []*models.Appointment) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"ID", "Client", "Email", "Phone", "Service", "Duration (min)",
		"Price", "Date", "Time", "Status", "Rejection Reason",
		"Final Price", "Payment", "Completion Notes", "Created",
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, appt := range appointments {
		row := i + 2
		values := []interface{}{
			appt.ID,
			appt.ClientName,
			appt.ClientEmail,
			appt.ClientPhone,
			appt.Service,
			appt.ServiceDuration,
			appt.ServicePrice,
			appt.Date,
			appt.Time,
			string(appt.Status),
			appt.RejectionReason,
			completedPrice(appt),
			appt.PaymentMethod,
			appt.CompletionNotes,
			appt.CreatedAt.Format("02.01.2006 15:04"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}

		if styleID, err := e.statusStyle(f, appt.Status); err == nil {
			statusCell, _ := excelize.CoordinatesToCellName(10, row)
			_ = f.SetCellStyle(sheetName, statusCell, statusCell, styleID)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "B", "E", 22)
	_ = f.SetColWidth(sheetName, "F", "M", 14)
	_ = f.SetColWidth(sheetName, "N", "N", 30)
	_ = f.SetColWidth(sheetName, "O", "O", 18)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("appointments_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("rows", len(appointments)).Msg("Excel file created")
	return filePath, nil
}

func completedPrice(appt *models.Appointment) interface{} {
	if appt.Status != models.StatusCompleted {
		return ""
	}
	return appt.FinalPrice
}

func (e *Exporter) statusStyle(f *excelize.File, status models.Status) (int, error) {
	var color string
	switch status {
	case models.StatusConfirmed, models.StatusCompleted:
		color = "#C6EFCE"
	case models.StatusPending:
		color = "#FFEB9C"
	case models.StatusRejected, models.StatusCancelled:
		color = "#FFC7CE"
	default:
		color = "#FFFFFF"
	}

	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}
