// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/paygrade/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/paygrade/internal/core/domain"
)

// linesPerRecord is the rendered height of one record.
const linesPerRecord = 3

// RecordList displays compensation records in a navigable list.
type RecordList struct {
	records  []domain.CompensationRecord
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewRecordList creates an empty record list.
func NewRecordList(s *styles.Styles) *RecordList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RecordList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (r *RecordList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RecordList) Update(msg tea.Msg) (*RecordList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the visible window of records.
func (r *RecordList) View() string {
	if len(r.records) == 0 {
		return r.styles.Muted.Render("No compensation records")
	}

	lines := make([]string, 0, len(r.records)*linesPerRecord+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Records (%d)", len(r.records))), "")

	visible := max((r.height-2)/linesPerRecord, 1)
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.records))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRecord(i, &r.records[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *RecordList) renderRecord(index int, rec *domain.CompensationRecord) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	heading := fmt.Sprintf("%s%s - %s", indicator, rec.Company, Field(rec.Title))
	heading = truncate(heading, max(r.width-4, 10))
	if index == r.selected {
		heading = r.styles.Selected.Render(heading)
	} else {
		heading = r.styles.Normal.Render(heading)
	}

	total := r.styles.Amount.Render(Amount(rec.TotalCompensation, rec.TotalCompensationCurrency))
	detail := r.styles.Muted.Render(fmt.Sprintf("  base %s, equity %s, bonus %s | %s | %s",
		Amount(rec.BaseSalary, rec.BaseSalaryCurrency),
		Amount(rec.Equity, rec.EquityCurrency),
		Amount(rec.Bonus, rec.BonusCurrency),
		Field(rec.Location),
		Field(rec.Experience)))

	return heading + "\n    " + total + detail
}

// Amount formats an amount with its currency, or "-" when missing.
func Amount(amount, currency string) string {
	if amount == "" || amount == domain.NotSpecified {
		return "-"
	}
	if currency == "" {
		return amount
	}
	return amount + " " + currency
}

// Field returns s, or "-" when it is empty or the not-specified sentinel.
func Field(s string) string {
	if s == "" || s == domain.NotSpecified {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// SetRecords replaces the records and resets the selection.
func (r *RecordList) SetRecords(records []domain.CompensationRecord) {
	r.records = records
	r.selected = 0
}

// Records returns the current records.
func (r *RecordList) Records() []domain.CompensationRecord {
	return r.records
}

// Selected returns the index of the selected record.
func (r *RecordList) Selected() int {
	return r.selected
}

// SelectedRecord returns the selected record, or nil if none.
func (r *RecordList) SelectedRecord() *domain.CompensationRecord {
	if r.selected < 0 || r.selected >= len(r.records) {
		return nil
	}
	return &r.records[r.selected]
}

// MoveUp moves selection up.
func (r *RecordList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RecordList) MoveDown() {
	if r.selected < len(r.records)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RecordList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of records.
func (r *RecordList) Count() int {
	return len(r.records)
}
