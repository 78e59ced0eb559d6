/*
Package app assembles the neo-keystore command line application.
*/
package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/nspcc-dev/neo-keystore/cli/options"
	"github.com/nspcc-dev/neo-keystore/cli/wallet"
	"github.com/nspcc-dev/neo-keystore/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "neo-keystore\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a neo-keystore instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "neo-keystore"
	ctl.Version = config.Version
	ctl.Usage = "NEP-2/NEP-6 keystore and transaction signer for Neo N3"
	ctl.ErrWriter = os.Stdout
	ctl.Flags = []cli.Flag{options.ConfigFile, options.Debug}

	ctl.Commands = append(ctl.Commands, wallet.NewCommands()...)
	return ctl
}
