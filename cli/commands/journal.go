package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/theQRL/interop/cli/flags"
	"github.com/theQRL/interop/journal"
)

func getJournalSubCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "dump",
			Usage: "Print recorded notifications, each prefixed with its sequence number",
			Flags: []cli.Flag{
				flags.JournalFileFlag,
				flags.JournalSeqFlag,
			},
			Action: func(c *cli.Context) error {
				j, err := openJournal(c.String(flags.JournalFileFlag.Name))
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				defer j.Close()

				out := c.App.Writer
				if c.IsSet(flags.JournalSeqFlag.Name) {
					e, err := j.Get(c.Uint64(flags.JournalSeqFlag.Name))
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					return printEntry(out, e)
				}
				return j.ForEach(func(e journal.Entry) error {
					return printEntry(out, e)
				})
			},
		},
		{
			Name:  "stats",
			Usage: "Summarize a journal file",
			Flags: []cli.Flag{
				flags.JournalFileFlag,
			},
			Action: func(c *cli.Context) error {
				file := c.String(flags.JournalFileFlag.Name)
				j, err := openJournal(file)
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				defer j.Close()

				s, err := j.Summary()
				if err != nil {
					return err
				}
				renderJournalSummary(c.App.Writer, file, s)
				return nil
			},
		},
	}
}

func AddJournalCommand(app *cli.App) {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "journal",
		Usage:       "Inspect notification journals",
		Subcommands: getJournalSubCommands(),
	})
}

func printEntry(out io.Writer, e journal.Entry) error {
	if _, err := fmt.Fprintf(out, "#%d Received headers! %d\n", e.Seq, len(e.Data)); err != nil {
		return err
	}
	if _, err := out.Write(e.Data); err != nil {
		return err
	}
	_, err := fmt.Fprint(out, "\n\n")
	return err
}

// openJournal opens an existing journal; inspecting must not create one.
func openJournal(file string) (*journal.Journal, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, err
	}
	return journal.Open(file)
}
