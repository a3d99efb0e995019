package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/redhatinsights/hostdiag/internal/archive"
)

func schemaCommand(appName string) *cli.Command {
	return &cli.Command{
		Name:      "manifest-schema",
		Hidden:    true,
		Usage:     "Prints the JSON schema of the report manifest.",
		UsageText: fmt.Sprintf("%v manifest-schema", appName),
		Description: "The manifest-schema command prints the JSON schema of the manifest document " +
			"included in every report archive. Use it to validate archives before automated processing.",
		Action: schemaAction,
	}
}

func schemaAction(_ *cli.Context) error {
	data, err := archive.Schema()
	if err != nil {
		return cli.Exit(err, ExitCodeSoftware)
	}
	fmt.Println(string(data))
	return nil
}
