package main

import (
	"fmt"
	"io"
)

// runHelp prints the command list, or the usage of one command.
func runHelp(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		writeOverview(stdout)
		return ExitCodeSuccess
	}
	cmd, ok := lookupCommand(args[0])
	if !ok {
		return unknownCommand(args[0], stderr)
	}
	fmt.Fprintln(stdout, cmd.usage)
	return ExitCodeSuccess
}

func writeOverview(w io.Writer) {
	fmt.Fprintln(w, HelpOverviewHeader)
	for _, cmd := range commands {
		fmt.Fprintf(w, FmtCommandLine, cmd.name, cmd.summary)
	}
	fmt.Fprintf(w, FmtHelpFooter, CLIName)
}
