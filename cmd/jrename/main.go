package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/jrename/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCmd()
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
	}
	os.Exit(cli.ExitCode(err))
}
