package commands

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/theQRL/interop/harness"
	"github.com/theQRL/interop/journal"
)

func renderStats(w io.Writer, address string, s harness.Stats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Address", "Received", "Printed", "Dropped", "Bytes"})
	table.Append([]string{
		address,
		strconv.FormatUint(s.Received, 10),
		strconv.FormatUint(s.Printed, 10),
		strconv.FormatUint(s.Dropped, 10),
		strconv.FormatUint(s.Bytes, 10),
	})
	table.Render()
}

func renderJournalSummary(w io.Writer, file string, s journal.Summary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Journal", "Entries", "Bytes", "Smallest", "Largest"})
	table.Append([]string{
		file,
		strconv.FormatUint(s.Count, 10),
		strconv.FormatUint(s.Bytes, 10),
		strconv.Itoa(s.Smallest),
		strconv.Itoa(s.Largest),
	})
	table.Render()
}
