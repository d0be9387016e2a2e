package dashboard

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/i474232898/weather-history-dashboard/internal/weather"
)

// View is State prepared for display.
type View struct {
	Input   string
	Loading bool
	Error   string
	Current *CurrentView
	History []HistoryItem
}

type CurrentView struct {
	City        string
	Temperature int
	Condition   string
	Glyph       string
	When        string
}

// HistoryItem is one history row. Only the first, most recent row is highlighted.
type HistoryItem struct {
	City        string
	Temperature int
	Condition   string
	Glyph       string
	When        string
	Highlight   bool
}

// NewView renders st relative to now.
func NewView(st State, now time.Time) View {
	v := View{
		Input:   st.Input(),
		Loading: st.Loading(),
		Error:   st.Error(),
	}

	if rec, ok := st.Current(); ok {
		v.Current = &CurrentView{
			City:        rec.City,
			Temperature: rec.Temperature,
			Condition:   rec.Condition,
			Glyph:       Glyph(rec.Condition),
			When:        RelativeTime(rec.Timestamp, now),
		}
	}

	v.History = HistoryItems(st.History(), now)
	return v
}

// HistoryItems renders records in the order given, highlighting the first.
func HistoryItems(recs []weather.Record, now time.Time) []HistoryItem {
	items := make([]HistoryItem, 0, len(recs))
	for i, rec := range recs {
		items = append(items, HistoryItem{
			City:        rec.City,
			Temperature: rec.Temperature,
			Condition:   rec.Condition,
			Glyph:       Glyph(rec.Condition),
			When:        RelativeTime(rec.Timestamp, now),
			Highlight:   i == 0,
		})
	}
	return items
}

// WriteText prints v for a terminal.
func WriteText(w io.Writer, v View) error {
	var b strings.Builder

	if v.Error != "" {
		fmt.Fprintf(&b, "error: %s\n", v.Error)
	}

	if v.Current != nil {
		c := v.Current
		fmt.Fprintf(&b, "%s  %s  %d°C  %s  (%s)\n", c.Glyph, c.City, c.Temperature, c.Condition, c.When)
	}

	if len(v.History) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "History (%d)\n", len(v.History))
		for _, h := range v.History {
			marker := " "
			if h.Highlight {
				marker = "*"
			}
			fmt.Fprintf(&b, "%s %s  %-20s %4d°C  %-14s %s\n", marker, h.Glyph, h.City, h.Temperature, h.Condition, h.When)
		}
	} else if v.Current != nil {
		b.WriteString("\nNo history yet\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
