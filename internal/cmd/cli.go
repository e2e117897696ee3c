// Package cmd holds the kong command tree of the hoja binary.
package cmd

import (
	"io"
	"os"

	"github.com/hoja-dev/hoja/internal/log"
)

// CLI is the root command. Flags may also come from a config file, see
// configpaths.ConfigCandidatePaths.
type CLI struct {
	ConfigFile string     `name:"config" help:"Config file to load before the default locations" env:"HOJA_CONFIG"`
	Log        log.Config `embed:"" prefix:"log."`

	Run    Run           `cmd:"" help:"Stream canonical frames from stdin through a core to stdout"`
	Remap  RemapCommand  `cmd:"" help:"Convert remap profiles"`
	Config ConfigCommand `cmd:"" help:"Manage configuration files"`
}

// stdout is where commands print their results.
var stdout io.Writer = os.Stdout
