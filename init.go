package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/phobologic/traitgraph/internal/config"
)

const configHeader = `# traitgraph configuration.
#
# screen:   raw render target size; menus are laid out in normalized units.
# strings:  localization file behind strings(), relative to this file.
# ignore:   gitignore-style patterns of menu files to skip.
# ticks:    updates per menu before reporting.
# elements: user trait slots per element tag ("*" for any other tag). Each
#           slot is int, float, bool, string or unimplemented. provided maps
#           slots the element computes itself to their starting value.
#
# Run "traitgraph --help" for the command line flags.
`

// runInit implements the `traitgraph init` subcommand, which writes a
// default traitgraph.yaml.
func runInit(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("traitgraph init", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var dryRun, force bool
	flags.BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	flags.BoolVar(&force, "force", false, "overwrite an existing file")

	flags.Usage = func() {
		fmt.Fprintf(stderr, `Usage: traitgraph init [flags] [path]

Write a default configuration file describing the screen size and the user
trait slots of each element type. Refuses to replace an existing file unless
--force is given.

path defaults to ./%s.

Flags:
`, config.FileName)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return err
	}

	content, err := generateConfig()
	if err != nil {
		return err
	}

	if dryRun {
		_, _ = fmt.Fprint(stdout, content)
		return nil
	}

	path := config.FileName
	if flags.NArg() > 0 {
		path = flags.Arg(0)
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote %s\n", path)
	return nil
}

// generateConfig returns the commented default configuration.
func generateConfig() (string, error) {
	data, err := config.Default().Marshal()
	if err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}
	return configHeader + "\n" + string(data), nil
}
