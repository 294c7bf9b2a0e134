package main

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"schedtex/internal/layout"
)

func renderSummary(arts []layout.Artifact, dir string, styled bool) string {
	tw := table.NewWriter()
	if styled {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	tw.AppendHeader(table.Row{"Pass", "File", "Days", "Events"})
	total := 0
	for _, a := range arts {
		tw.AppendRow(table.Row{string(a.Pass), filepath.Join(dir, a.File), strconv.Itoa(a.Days), strconv.Itoa(a.Events)})
		total += a.Events
	}
	tw.AppendFooter(table.Row{"", "", "Total", strconv.Itoa(total)})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}

func shouldStyle(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
