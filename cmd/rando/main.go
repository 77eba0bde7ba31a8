package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cfoust/rando/pkg/config"
	"github.com/cfoust/rando/pkg/version"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ArchiveFlags struct {
	Table      string `help:"The asset type table." default:"db360.yaml" type:"existingfile"`
	Generation string `help:"How Prop2 positions are stored." default:"signed" enum:"signed,unsigned"`
}

var CLI struct {
	Version bool `help:"Print version information and exit." short:"v"`
	Debug   bool `help:"Whether to enable debug logging."`

	Randomize struct {
		Configs []string `arg:"" optional:"" name:"configs" help:"Configuration files for the run." type:"existingfile"`
	} `cmd:"" help:"Randomize an archive and executable."`

	Verify struct {
		ArchiveFlags `embed:""`
		Archive string `arg:"" help:"The archive to check." type:"existingfile"`
	} `cmd:"" help:"Check that every entry of an archive survives decoding and encoding."`

	Index struct {
		ArchiveFlags `embed:""`
		Archive string `arg:"" help:"The archive to index." type:"existingfile"`
		Out     string `arg:"" help:"Where to write the index."`
	} `cmd:"" help:"Write a CBOR index of an archive's entries."`

	Dump struct {
		ArchiveFlags `embed:""`
		Archive string `arg:"" help:"The archive to read." type:"existingfile"`
		Ordinal uint16 `arg:"" help:"The entry to print."`
	} `cmd:"" help:"Print a decoded archive entry."`

	History struct {
		Database string `arg:"" help:"The history database." type:"existingfile"`
		Seed     *int64 `help:"Only list runs with this seed."`
		Limit    int    `help:"How many runs to list." default:"20"`
	} `cmd:"" help:"List recorded runs."`

	Spoiler struct {
		Seed      int64  `arg:"" help:"The seed to look up."`
		Directory string `help:"A spoiler directory to read from."`
		Redis     string `help:"A Redis server to read from."`
	} `cmd:"" help:"Print the newest spoiler published for a seed."`

	Config struct {
	} `cmd:"" help:"Write the default configuration to standard output."`
}

func writeError(err error) {
	log.Error().Err(err).Msg("failed")
	os.Exit(1)
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("rando"),
		kong.Description("a randomizer for Banjo-Kazooie on the Xbox 360"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	if CLI.Version {
		fmt.Printf(
			"rando %s (commit %s)\n",
			version.Version,
			version.GitCommit,
		)
		fmt.Printf(
			"built %s\n",
			version.BuildTime,
		)
		os.Exit(0)
	}

	var err error
	switch ctx.Command() {
	case "randomize":
		fallthrough
	case "randomize <configs>":
		err = randomizeCommand(CLI.Randomize.Configs)
	case "verify <archive>":
		err = verifyCommand(CLI.Verify.ArchiveFlags, CLI.Verify.Archive)
	case "index <archive> <out>":
		err = indexCommand(CLI.Index.ArchiveFlags, CLI.Index.Archive, CLI.Index.Out)
	case "dump <archive> <ordinal>":
		err = dumpCommand(CLI.Dump.ArchiveFlags, CLI.Dump.Archive, CLI.Dump.Ordinal)
	case "history <database>":
		err = historyCommand(CLI.History.Database, CLI.History.Seed, CLI.History.Limit)
	case "spoiler <seed>":
		err = spoilerCommand(CLI.Spoiler.Seed, CLI.Spoiler.Directory, CLI.Spoiler.Redis)
	case "config":
		os.Stdout.Write(config.DEFAULT)
	}

	if err != nil {
		writeError(err)
	}
}
