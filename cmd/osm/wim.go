// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/osmnfv/osm/internal/issue"
	"github.com/osmnfv/osm/pkg/sol005"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const (
	flagWIMUser        = "wim-user"
	flagWIMPassword    = "wim-password"
	flagWIMPortMapping = "wim-port-mapping"
)

func newWIMCreateCommand(app *App) *cobra.Command {
	var (
		account sol005.WIMAccount
		wait    bool
	)

	cmd := &cobra.Command{
		Use:   "wim-create",
		Short: "Register a WIM account",
		Args:  cobra.NoArgs,
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			id, err := client.WIM().Create(cmd.Context(), account, wait)
			if err != nil {
				return issue.WrapWithContext(err, "create WIM account", account.Name)
			}
			fmt.Fprintln(app.stdout, id)
			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVar(&account.Name, "name", "", "name of the WIM account")
	f.StringVar(&account.Type, "wim-type", "", "WIM type")
	f.StringVar(&account.URL, "url", "", "WIM URL")
	f.StringVar(&account.User, flagWIMUser, "", "WIM username")
	f.StringVar(&account.Password, flagWIMPassword, "", "WIM password")
	f.StringVar(&account.Description, "description", sol005.DefaultWIMDescription, "human readable description")
	f.StringVar(&account.Config, "config", "", "WIM specific config parameters as a YAML document")
	f.StringVar(&account.PortMappingFile, flagWIMPortMapping, "", "YAML file with the port mapping between DC edge and WAN edge")
	f.BoolVar(&wait, "wait", false, "block until the operation completes or times out")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newWIMUpdateCommand(app *App) *cobra.Command {
	var (
		upd                                 sol005.WIMUpdate
		newName, wimType, url, user, passwd string
		description, cfg                    string
		wait                                bool
	)

	cmd := &cobra.Command{
		Use:   "wim-update <name>",
		Short: "Update a WIM account",
		Long: `Update a WIM account given by name or id.

Only the flags you pass are sent. --config "" clears the account config and
cannot be combined with --wim-port-mapping.`,
		Args: cobra.ExactArgs(1),
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			ptr := func(flag, value string) *string {
				if !changed(flag) {
					return nil
				}
				return &value
			}

			upd.NewName = ptr("newname", newName)
			upd.Type = ptr("wim-type", wimType)
			upd.URL = ptr("url", url)
			upd.User = ptr(flagWIMUser, user)
			upd.Password = ptr(flagWIMPassword, passwd)
			upd.Description = ptr("description", description)
			upd.Config = ptr("config", cfg)

			client, err := app.client()
			if err != nil {
				return err
			}
			if err := client.WIM().Update(cmd.Context(), args[0], upd, wait); err != nil {
				return issue.WrapWithContext(err, "update WIM account", args[0])
			}
			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVar(&newName, "newname", "", "new name for the WIM account")
	f.StringVar(&wimType, "wim-type", "", "WIM type")
	f.StringVar(&url, "url", "", "WIM URL")
	f.StringVar(&user, flagWIMUser, "", "WIM username")
	f.StringVar(&passwd, flagWIMPassword, "", "WIM password")
	f.StringVar(&description, "description", "", "human readable description")
	f.StringVar(&cfg, "config", "", "WIM specific config parameters as a YAML document")
	f.StringVar(&upd.PortMappingFile, flagWIMPortMapping, "", "YAML file with the port mapping between DC edge and WAN edge")
	f.BoolVar(&wait, "wait", false, "block until the operation completes or times out")

	return cmd
}

func newWIMDeleteCommand(app *App) *cobra.Command {
	var force, wait bool

	cmd := &cobra.Command{
		Use:   "wim-delete <name>",
		Short: "Delete a WIM account",
		Args:  cobra.ExactArgs(1),
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			msg, err := client.WIM().Delete(cmd.Context(), args[0], force, wait)
			if err != nil {
				return issue.WrapWithContext(err, "delete WIM account", args[0])
			}
			fmt.Fprintln(app.stdout, msg)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&force, "force", false, "delete bypassing pre-conditions")
	cmd.Flags().BoolVar(&wait, "wait", false, "block until the operation completes or times out")
	return cmd
}

func newWIMListCommand(app *App) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "wim-list",
		Short: "List WIM accounts",
		Args:  cobra.NoArgs,
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			wims, err := client.WIM().List(cmd.Context(), filter)
			if err != nil {
				return issue.WrapWithOperation(err, "list WIM accounts")
			}

			rows := make([]table.Row, 0, len(wims))
			for _, w := range wims {
				rows = append(rows, table.Row{w.Name, w.UUID})
			}
			return newPrinter(app.stdout, app.cfg).table(table.Row{"wim name", "uuid"}, rows, wims)
		}),
	}

	cmd.Flags().StringVar(&filter, "filter", "", "restrict the list to accounts matching the filter")
	return cmd
}

func newWIMShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "wim-show <name>",
		Short: "Show the details of a WIM account",
		Args:  cobra.ExactArgs(1),
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			wim, err := client.WIM().Get(cmd.Context(), args[0])
			if err != nil {
				return issue.WrapWithContext(err, "show WIM account", args[0])
			}
			return newPrinter(app.stdout, app.cfg).fields(wim)
		}),
	}
}
