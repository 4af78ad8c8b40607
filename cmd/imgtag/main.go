package main

import (
	"fmt"
	"io"
	"os"
)

// command is one subcommand of the CLI.
type command struct {
	name    string
	summary string
	usage   string
	run     func(args []string, stdin io.Reader, stdout, stderr io.Writer) int
}

var commands []command

func init() {
	commands = []command{
		{CmdNameRender, SummaryRender, HelpRenderUsage, runRender},
		{CmdNameValidate, SummaryValidate, HelpValidateUsage, runValidate},
		{CmdNameVersion, SummaryVersion, HelpVersionUsage, func(args []string, _ io.Reader, stdout, stderr io.Writer) int {
			return runVersion(args, stdout, stderr)
		}},
		{CmdNameHelp, SummaryHelp, HelpHelpUsage, func(args []string, _ io.Reader, stdout, stderr io.Writer) int {
			return runHelp(args, stdout, stderr)
		}},
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || isHelpFlag(args[0]) {
		return runHelp(nil, stdout, stderr)
	}
	cmd, ok := lookupCommand(args[0])
	if !ok {
		return unknownCommand(args[0], stderr)
	}
	return cmd.run(args[1:], stdin, stdout, stderr)
}

func lookupCommand(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

func isHelpFlag(arg string) bool {
	switch arg {
	case FlagHelpShort, FlagHelpLong, FlagHelpSingleDash:
		return true
	}
	return false
}

func unknownCommand(name string, stderr io.Writer) int {
	fmt.Fprintf(stderr, FmtUnknownCommand, CLIName, ErrMsgUnknownCommand, name)
	fmt.Fprintf(stderr, FmtHelpHint, CLIName)
	return ExitCodeUsageError
}
