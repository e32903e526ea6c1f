package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/slideshow/version"
)

var versionJSON bool

func runVersion(cmd *cobra.Command, _ []string) error {
	info := version.Get()
	if versionJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", serviceName, info.String())
	return err
}
