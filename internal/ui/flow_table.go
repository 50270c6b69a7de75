package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/vamsirch/flowtrend-scanner/internal/flow"
	"github.com/vamsirch/flowtrend-scanner/internal/occ"
)

var flowHeaders = []string{"Time", "Ticker", "Tags", "Side", "Price", "Size", "Flow", "Symbol"}

// FlowTableView displays the whale flow buffer, newest first.
type FlowTableView struct {
	table *tview.Table
}

// NewFlowTableView creates the flow table.
func NewFlowTableView() *FlowTableView {
	table := tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0).
		SetSelectable(true, false)

	table.SetTitle(" Whale Flow ").SetBorder(true)
	setFlowHeaders(table)

	return &FlowTableView{table: table}
}

// Widget returns the tview primitive.
func (v *FlowTableView) Widget() tview.Primitive {
	return v.table
}

// Update redraws the table from a buffer snapshot.
func (v *FlowTableView) Update(records []flow.Record) {
	v.table.Clear()
	setFlowHeaders(v.table)

	for i, rec := range records {
		row := i + 1

		// day-aggregate rows carry no trade time
		timeStr := "EOD"
		if !rec.DayAggregate() {
			timeStr = rec.Timestamp.Format("15:04:05")
		}

		sideColor := tcell.ColorGreen
		if rec.Side == occ.Put {
			sideColor = tcell.ColorRed
		}

		cells := []string{
			timeStr,
			rec.Ticker,
			rec.Tag,
			string(rec.Side),
			fmt.Sprintf("%.2f", rec.Price),
			fmt.Sprintf("%d", rec.Size),
			formatNotional(rec.Notional),
			rec.ContractSymbol,
		}

		for col, text := range cells {
			cell := tview.NewTableCell(text).SetAlign(tview.AlignLeft)
			switch col {
			case 2:
				cell.SetTextColor(tagColor(rec.Tag))
			case 3:
				cell.SetTextColor(sideColor)
			}
			v.table.SetCell(row, col, cell)
		}
	}

	v.table.SetTitle(fmt.Sprintf(" Whale Flow (%d) ", len(records)))
}

func setFlowHeaders(table *tview.Table) {
	for col, header := range flowHeaders {
		cell := tview.NewTableCell(header).
			SetTextColor(tview.Styles.SecondaryTextColor).
			SetAlign(tview.AlignLeft).
			SetSelectable(false)
		table.SetCell(0, col, cell)
	}
}

// tagColor highlights sweeps; historical rows stay muted.
func tagColor(tag string) tcell.Color {
	switch tag {
	case flow.TagSweep:
		return tcell.ColorOrange
	case flow.TagHistorical:
		return tcell.ColorGray
	}
	return tview.Styles.PrimaryTextColor
}

// formatNotional renders dollar flow compactly ($1.2M, $350K).
func formatNotional(n float64) string {
	switch {
	case n >= 1e6:
		return fmt.Sprintf("$%.1fM", n/1e6)
	case n >= 1e3:
		return fmt.Sprintf("$%.0fK", n/1e3)
	}
	return fmt.Sprintf("$%.0f", n)
}
