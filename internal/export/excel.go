// Package export renders booking reports as xlsx files.
package export

import (
	"fmt"
	"io"
	"time"

	"shareit/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Бронирования"

var headers = []string{"ID", "Вещь", "Кто бронирует", "Начало", "Конец", "Статус", "Создано"}

// WriteBookingsReport записывает отчёт по бронированиям владельца в w.
func WriteBookingsReport(w io.Writer, bookings []*models.Booking, itemNames map[int64]string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for row, b := range bookings {
		values := []any{
			b.ID,
			itemNames[b.ItemID],
			b.BookerID,
			b.Start.Format(time.DateTime),
			b.End.Format(time.DateTime),
			b.Status,
			b.CreatedAt.Format(time.DateTime),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "G", 22)
	_ = f.DeleteSheet("Sheet1")

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	return nil
}
