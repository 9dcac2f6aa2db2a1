package runtime

import (
	"fmt"
	"strings"
	"time"

	"go-lms/internal/features/binding"
	"go-lms/internal/features/widget"
	"go-lms/pkg/utils"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Dashboard"

// exportWorkbook writes a summary sheet plus one sheet per widget.
func exportWorkbook(view *View, now time.Time) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, "", err
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	summary := [][]any{
		{"Dashboard", view.Name},
		{"Time range", string(view.State.TimeRange)},
		{"Tenant", view.State.TenantID},
		{"Exported at", now.UTC().Format("2006-01-02 15:04:05")},
		{},
		{"Widget", "Type", "Data source", "Status"},
	}
	for _, w := range view.Widgets {
		status := string(w.Binding.State)
		if w.Binding.Error != "" {
			status = w.Binding.Error
		}
		summary = append(summary, []any{w.Widget.Title, string(w.Widget.Type), string(w.Widget.DataSource), status})
	}
	writeRows(f, summarySheet, summary)
	f.SetCellStyle(summarySheet, "A6", "D6", headerStyle)
	f.SetColWidth(summarySheet, "A", "D", 24)

	used := map[string]int{strings.ToLower(summarySheet): 1}
	for _, w := range view.Widgets {
		name := sheetName(w.Widget.Title, used)
		if _, err := f.NewSheet(name); err != nil {
			return nil, "", err
		}
		rows := widgetRows(w)
		writeRows(f, name, rows)
		if len(rows) > 0 {
			last, _ := excelize.CoordinatesToCellName(max(len(rows[0]), 1), 1)
			f.SetCellStyle(name, "A1", last, headerStyle)
		}
		f.SetColWidth(name, "A", "H", 18)
	}
	f.SetActiveSheet(0)

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("%s-%s.xlsx", utils.Slugify(view.Name, "dashboard"), now.UTC().Format("20060102"))
	return buffer.Bytes(), filename, nil
}

// widgetRows flattens the widget data into a header row plus values.
func widgetRows(w WidgetView) [][]any {
	if w.Binding.State == binding.StateError {
		return [][]any{{"Error"}, {w.Binding.Error}}
	}
	data := w.Binding.Data

	if t, ok := widget.AsTable(data); ok && w.Widget.Type == widget.TypeTable {
		rows := [][]any{toAny(t.Columns)}
		for _, r := range t.Rows {
			row := make([]any, 0, len(t.Columns))
			for _, c := range t.Columns {
				row = append(row, r[c])
			}
			rows = append(rows, row)
		}
		return rows
	}
	if m, ok := widget.AsMetric(data); ok && (w.Widget.Type == widget.TypeStatCard || w.Widget.Type == widget.TypeProgressRing) {
		row := []any{m.Label, m.Value, m.Unit}
		if m.Change != nil {
			row = append(row, *m.Change)
		}
		return [][]any{{"Label", "Value", "Unit", "Change"}, row}
	}
	if s, ok := widget.AsSeries(data); ok {
		header := []any{"Label"}
		for _, d := range s.Datasets {
			header = append(header, d.Label)
		}
		rows := [][]any{header}
		for i, label := range s.Labels {
			row := []any{label}
			for _, d := range s.Datasets {
				if i < len(d.Values) {
					row = append(row, d.Values[i])
				} else {
					row = append(row, nil)
				}
			}
			rows = append(rows, row)
		}
		return rows
	}
	return [][]any{{widget.NoDataMessage}}
}

func writeRows(f *excelize.File, sheet string, rows [][]any) {
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			f.SetCellValue(sheet, cell, v)
		}
	}
}

// sheetName makes a unique sheet name within the 31 character limit.
func sheetName(title string, used map[string]int) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = "Widget"
	}
	name = truncate(name, 28)

	key := strings.ToLower(name)
	used[key]++
	if n := used[key]; n > 1 {
		name = fmt.Sprintf("%s %d", name, n)
	}
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
