package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/walteh/sanitize/pkg/rules"
)

// renderRules draws the rule table for --list-rules. Only ASCII is used so the
// listing itself would pass through sanitize unchanged.
func renderRules(list []rules.Rule) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleDefault)
	tw.AppendHeader(table.Row{"#", "Kind", "Match", "Replacement"})

	for _, r := range list {
		match := string(r.Category)
		replacement := strconv.QuoteToASCII(r.Replacement)
		switch {
		case r.Kind == rules.KindLiteral:
			match = strconv.QuoteToASCII(r.Pattern)
		case r.Category == rules.CategoryDecomposable:
			replacement = "(ascii part of decomposition)"
		}
		tw.AppendRow(table.Row{r.Priority, r.Kind.String(), match, replacement})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
