package flags

import "github.com/urfave/cli/v2"

// List of global flags used by CLI commands

var ConfigFileFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "YAML file overlaying the default configuration",
	EnvVars: []string{"INTEROP_CONFIG"},
}

var AddressFlag = &cli.StringFlag{
	Name:    "address",
	Aliases: []string{"a"},
	Usage:   "endpoint the node listens on, host:port or multiaddr",
	Value:   "127.0.0.1:60000",
	EnvVars: []string{"INTEROP_ADDRESS"},
}

var LibraryFlag = &cli.StringFlag{
	Name:  "library",
	Usage: "node implementation: embedded or native",
	Value: "embedded",
}

var LogLevelFlag = &cli.StringFlag{
	Name:    "log-level",
	Value:   "warning",
	EnvVars: []string{"INTEROP_LOG_LEVEL"},
}

var LogFileFlag = &cli.StringFlag{
	Name:  "log-file",
	Usage: "also write logs to this rotating file",
}

var JournalFlag = &cli.StringFlag{
	Name:  "journal",
	Usage: "record notifications to this bolt file",
}

var JWTSecretFlag = &cli.StringFlag{
	Name:  "jwt-secret",
	Usage: "hex encoded 32 byte secret file; the embedded node then requires a HS256 bearer token",
}

var SummaryFlag = &cli.BoolFlag{
	Name:  "summary",
	Usage: "print notification counters after the node stopped",
}

var JournalFileFlag = &cli.StringFlag{
	Name:     "file",
	Aliases:  []string{"f"},
	Usage:    "journal file written by run --journal",
	Required: true,
}

var JournalSeqFlag = &cli.Uint64Flag{
	Name:  "seq",
	Usage: "only print the entry with this sequence number",
}
