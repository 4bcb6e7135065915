package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/depend/pkg/forest"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a forest document against the schema",
		ArgsUsage: "<forest.json>",
		Action:    runValidateCmd,
	}
}

func runValidateCmd(c *cli.Context) error {
	path, err := forestPath(c)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := forest.Validate(data); err != nil {
		color.Red("Forest validation failed:")
		fmt.Fprintf(c.App.Writer, "  - %s\n", err)
		return cli.Exit("invalid forest document", 1)
	}
	if _, err := forest.DecodeBytes(data); err != nil {
		color.Red("Forest validation failed:")
		fmt.Fprintf(c.App.Writer, "  - %s\n", err)
		return cli.Exit("invalid forest document", 1)
	}
	color.New(color.FgGreen).Fprintf(c.App.Writer, "Forest valid: %s\n", path)
	return nil
}
