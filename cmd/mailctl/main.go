package main

import (
	"os"

	mailctlcmd "github.com/telekom/mail-dispatcher/pkg/mailctl/cmd"
)

func main() {
	root := mailctlcmd.NewRootCommand(mailctlcmd.DefaultConfig())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
