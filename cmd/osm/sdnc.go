// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/osmnfv/osm/internal/issue"
	"github.com/osmnfv/osm/pkg/sol005"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// SDN controller account flags are prefixed so they do not shadow the
// global --user and --password used to log in.
const (
	flagSDNUser     = "sdn-user"
	flagSDNPassword = "sdn-password"
	flagSDNVersion  = "sdn-controller-version"
)

func newSDNCCreateCommand(app *App) *cobra.Command {
	var (
		sdnc sol005.SDNController
		wait bool
	)

	cmd := &cobra.Command{
		Use:   "sdnc-create",
		Short: "Register an SDN controller",
		Args:  cobra.NoArgs,
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			id, err := client.SDNC().Create(cmd.Context(), sdnc, wait)
			if err != nil {
				return issue.WrapWithContext(err, "create SDN controller", sdnc.Name)
			}
			fmt.Fprintln(app.stdout, id)
			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVar(&sdnc.Name, "name", "", "name of the SDN controller")
	f.StringVar(&sdnc.Type, "type", "", "SDN controller type")
	f.StringVar(&sdnc.Version, flagSDNVersion, "", "SDN controller version")
	f.StringVar(&sdnc.IP, "ip-address", "", "SDN controller IP address")
	f.IntVar(&sdnc.Port, "port", 0, "SDN controller port")
	f.StringVar(&sdnc.DPID, "switch-dpid", "", "switch DPID (OpenFlow datapath id)")
	f.StringVar(&sdnc.User, flagSDNUser, "", "SDN controller username")
	f.StringVar(&sdnc.Password, flagSDNPassword, "", "SDN controller password")
	f.BoolVar(&wait, "wait", false, "block until the operation completes or times out")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newSDNCUpdateCommand(app *App) *cobra.Command {
	var (
		newName, sdnType, ip, dpid string
		version, user, password    string
		port                       int
		wait                       bool
	)

	cmd := &cobra.Command{
		Use:   "sdnc-update <name>",
		Short: "Update an SDN controller",
		Long: `Update an SDN controller given by name or id.

Only the flags you pass are sent. Passing an empty value to --sdn-user,
--sdn-password or --sdn-controller-version removes that field.`,
		Args: cobra.ExactArgs(1),
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			fields := map[string]any{}

			setIfNotEmpty := func(key, value string) {
				if value != "" {
					fields[key] = value
				}
			}
			setOrClear := func(flag, key, value string) {
				if !changed(flag) {
					return
				}
				if value == "" {
					fields[key] = nil
					return
				}
				fields[key] = value
			}

			setIfNotEmpty("name", newName)
			setIfNotEmpty("type", sdnType)
			setIfNotEmpty("ip", ip)
			setIfNotEmpty("dpid", dpid)
			if changed("port") {
				fields["port"] = port
			}
			setOrClear(flagSDNVersion, "version", version)
			setOrClear(flagSDNUser, "user", user)
			setOrClear(flagSDNPassword, "password", password)

			client, err := app.client()
			if err != nil {
				return err
			}
			if err := client.SDNC().Update(cmd.Context(), args[0], fields, wait); err != nil {
				return issue.WrapWithContext(err, "update SDN controller", args[0])
			}
			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVar(&newName, "newname", "", "new name for the SDN controller")
	f.StringVar(&sdnType, "type", "", "SDN controller type")
	f.StringVar(&version, flagSDNVersion, "", "SDN controller version")
	f.StringVar(&ip, "ip-address", "", "SDN controller IP address")
	f.IntVar(&port, "port", 0, "SDN controller port")
	f.StringVar(&dpid, "switch-dpid", "", "switch DPID (OpenFlow datapath id)")
	f.StringVar(&user, flagSDNUser, "", "SDN controller username")
	f.StringVar(&password, flagSDNPassword, "", "SDN controller password")
	f.BoolVar(&wait, "wait", false, "block until the operation completes or times out")

	return cmd
}

func newSDNCDeleteCommand(app *App) *cobra.Command {
	var force, wait bool

	cmd := &cobra.Command{
		Use:   "sdnc-delete <name>",
		Short: "Delete an SDN controller",
		Args:  cobra.ExactArgs(1),
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			msg, err := client.SDNC().Delete(cmd.Context(), args[0], force, wait)
			if err != nil {
				return issue.WrapWithContext(err, "delete SDN controller", args[0])
			}
			fmt.Fprintln(app.stdout, msg)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&force, "force", false, "delete bypassing pre-conditions")
	cmd.Flags().BoolVar(&wait, "wait", false, "block until the operation completes or times out")
	return cmd
}

func newSDNCListCommand(app *App) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "sdnc-list",
		Short: "List SDN controllers",
		Args:  cobra.NoArgs,
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			sdncs, err := client.SDNC().List(cmd.Context(), filter)
			if err != nil {
				return issue.WrapWithOperation(err, "list SDN controllers")
			}

			rows := make([]table.Row, 0, len(sdncs))
			for _, s := range sdncs {
				rows = append(rows, table.Row{s.Name(), s.ID(), s.String("_admin.operationalState")})
			}
			return newPrinter(app.stdout, app.cfg).table(table.Row{"sdnc name", "id", "operational state"}, rows, sdncs)
		}),
	}

	cmd.Flags().StringVar(&filter, "filter", "", "restrict the list to controllers matching the filter (e.g. type=onos)")
	return cmd
}

func newSDNCShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sdnc-show <name>",
		Short: "Show the details of an SDN controller",
		Args:  cobra.ExactArgs(1),
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			sdnc, err := client.SDNC().Get(cmd.Context(), args[0])
			if err != nil {
				return issue.WrapWithContext(err, "show SDN controller", args[0])
			}
			return newPrinter(app.stdout, app.cfg).fields(sdnc)
		}),
	}
}
