package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paygrade/internal/core/domain"
)

func testRecords() []domain.CompensationRecord {
	return []domain.CompensationRecord{
		{
			ID: "1", Company: "Amazon", Title: "SDE II", Location: "Seattle",
			TotalCompensation: "180000", TotalCompensationCurrency: "USD",
			BaseSalary: "150000", BaseSalaryCurrency: "USD",
			Equity: domain.NotSpecified, Experience: "3 years",
		},
		{ID: "2", Company: "Flipkart", Title: domain.NotSpecified, TotalCompensation: "4500000", TotalCompensationCurrency: "INR"},
		{ID: "3", Company: "Uber"},
	}
}

func TestRecordList_EmptyView(t *testing.T) {
	l := NewRecordList(nil)

	assert.Contains(t, l.View(), "No compensation records")
	assert.Nil(t, l.SelectedRecord())
}

func TestRecordList_Navigation(t *testing.T) {
	l := NewRecordList(nil)
	l.SetRecords(testRecords())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	l.MoveDown()
	assert.Equal(t, 2, l.Selected(), "selection stops at the last record")

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	require.NotNil(t, l.SelectedRecord())
	assert.Equal(t, "Flipkart", l.SelectedRecord().Company)
}

func TestRecordList_SetRecordsResetsSelection(t *testing.T) {
	l := NewRecordList(nil)
	l.SetRecords(testRecords())
	l.MoveDown()

	l.SetRecords(testRecords()[:1])

	assert.Equal(t, 0, l.Selected())
	assert.Equal(t, 1, l.Count())
}

func TestRecordList_View(t *testing.T) {
	l := NewRecordList(nil)
	l.SetDimensions(120, 40)
	l.SetRecords(testRecords())

	view := l.View()

	assert.Contains(t, view, "Records (3)")
	assert.Contains(t, view, "Amazon - SDE II")
	assert.Contains(t, view, "180000 USD")
	assert.Contains(t, view, "base 150000 USD, equity -, bonus -")
	assert.Contains(t, view, "Seattle")
	assert.Contains(t, view, "Flipkart - -")
}

func TestRecordList_ViewScrollsToSelection(t *testing.T) {
	l := NewRecordList(nil)
	l.SetDimensions(120, 5) // one record visible
	l.SetRecords(testRecords())
	l.MoveDown()
	l.MoveDown()

	view := l.View()

	assert.Contains(t, view, "Uber")
	assert.NotContains(t, view, "Amazon")
}

func TestAmountAndField(t *testing.T) {
	assert.Equal(t, "-", Amount("", "USD"))
	assert.Equal(t, "-", Amount(domain.NotSpecified, ""))
	assert.Equal(t, "150000", Amount("150000", ""))
	assert.Equal(t, "150000 USD", Amount("150000", "USD"))

	assert.Equal(t, "-", Field(""))
	assert.Equal(t, "-", Field(domain.NotSpecified))
	assert.Equal(t, "Seattle", Field("Seattle"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
