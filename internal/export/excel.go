package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"medibook/internal/models"
	"medibook/internal/slots"
)

// scheduleWriter accumulates rows into an excelize workbook.
type scheduleWriter struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

func newScheduleWriter() *scheduleWriter {
	return &scheduleWriter{file: excelize.NewFile()}
}

func (w *scheduleWriter) addSheet(name string) error {
	if len(name) > 31 {
		name = name[:31] // Excel sheet name limit
	}

	if w.currentSheet == "" {
		w.file.SetSheetName("Sheet1", name)
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	w.currentSheet = name
	w.currentRow = 1
	return nil
}

func (w *scheduleWriter) writeHeader(columns []string) error {
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, col); err != nil {
			return err
		}
	}

	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, w.currentRow)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), w.currentRow)
		_ = w.file.SetCellStyle(w.currentSheet, startCell, endCell, style)
	}

	w.currentRow++
	return nil
}

func (w *scheduleWriter) writeRow(row []interface{}) error {
	for i, val := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, val); err != nil {
			return err
		}
	}
	w.currentRow++
	return nil
}

// BuildScheduleWorkbook renders a doctor's weekly consultation hours
// and blackout dates as a two-sheet workbook for clinic staff.
func BuildScheduleWorkbook(doctor *models.Doctor, gen *slots.Generator) (*excelize.File, error) {
	w := newScheduleWriter()

	if err := w.addSheet("Weekly Schedule"); err != nil {
		return nil, err
	}
	if err := w.writeHeader([]string{"Day", "Start", "End", "Bookable Slots"}); err != nil {
		return nil, err
	}

	index := slots.NewWeekIndex(doctor.ConsultationHours)
	for _, e := range doctor.ConsultationHours {
		for _, h := range e.Hours {
			count := rangeSlotCount(gen, h)
			if err := w.writeRow([]interface{}{e.Day, h.StartTime, h.EndTime, count}); err != nil {
				return nil, err
			}
		}
	}
	if index.Empty() && len(doctor.ConsultationHours) == 0 {
		if err := w.writeRow([]interface{}{"(no consultation hours)"}); err != nil {
			return nil, err
		}
	}

	if err := w.addSheet("Blackout Dates"); err != nil {
		return nil, err
	}
	if err := w.writeHeader([]string{"Date"}); err != nil {
		return nil, err
	}
	for _, d := range doctor.UnavailableDates {
		if err := w.writeRow([]interface{}{d}); err != nil {
			return nil, err
		}
	}

	return w.file, nil
}

// rangeSlotCount counts bookable slots for one raw range; malformed
// ranges count as zero, consistent with the generator skipping them.
func rangeSlotCount(gen *slots.Generator, h models.HourRange) int {
	start, err := slots.ParseTimeOfDay(h.StartTime)
	if err != nil {
		return 0
	}
	end, err := slots.ParseTimeOfDay(h.EndTime)
	if err != nil {
		return 0
	}
	return len(gen.Expand(slots.HourRange{Start: start, End: end}))
}

// WriteWorkbook writes the workbook to w.
func WriteWorkbook(f *excelize.File, w io.Writer) error {
	return f.Write(w)
}
