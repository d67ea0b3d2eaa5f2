package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsync/cmd/docsync/commands"
	ferrors "git.home.luguber.info/inful/docsync/internal/foundation/errors"
	"git.home.luguber.info/inful/docsync/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var cli commands.CLI
	global := &commands.Global{Stdout: stdout, Stderr: stderr}

	parser, err := kong.New(&cli,
		kong.Name("docsync"),
		kong.Description("Mirror a docs directory into a site content collection, normalizing Markdown frontmatter."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		commands.Vars(version.String()),
		kong.Bind(global),
	)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 10
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "docsync: %v\n", err)
		return 2
	}

	if err := ctx.Run(&cli); err != nil {
		return ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).WithOutput(stderr).Handle(err)
	}
	return 0
}
