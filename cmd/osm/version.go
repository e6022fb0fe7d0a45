// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/osmnfv/osm/internal/issue"

	"github.com/spf13/cobra"
)

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the server and client versions",
		Args:  cobra.NoArgs,
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			server, err := client.Version(cmd.Context())
			if err != nil {
				return issue.WrapWithContext(err, "get server version", client.BaseURL())
			}
			fmt.Fprintf(app.stdout, "Server version: %s\n", server)
			fmt.Fprintf(app.stdout, "Client version: %s\n", getVersionString())
			return nil
		}),
	}
}
