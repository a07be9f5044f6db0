package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/theQRL/interop/cli/commands"
	"github.com/theQRL/interop/config"
)

var app = cli.NewApp()

func info() {
	app.Name = "interop"
	app.Usage = "Start a node, print the headers it receives and stop it on demand"
	app.Version = config.GetDevConfig().Version
}

func initCommands() {
	app.Commands = []*cli.Command{}
	commands.AddRunCommand(app)
	commands.AddJournalCommand(app)
}

func main() {
	info()
	initCommands()
	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
