// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/osmnfv/osm/internal/config"
	"github.com/osmnfv/osm/internal/issue"
	"github.com/osmnfv/osm/pkg/osmpkg"
	"github.com/osmnfv/osm/pkg/types"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func packageTypeNames() string {
	names := make([]string, 0, 3)
	for _, t := range osmpkg.PackageTypes() {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}

func newPackageCreateCommand(app *App) *cobra.Command {
	opts := osmpkg.CreateOptions{}

	cmd := &cobra.Command{
		Use:   "package-create <type> <name>",
		Short: "Create a package skeleton",
		Long: `Create a descriptor package skeleton.

<type> is one of ` + packageTypeNames() + `. The package is written to
<base-directory>/<name>_<type> with a starter descriptor, a README and, for
VNFs, the icons, charms, cloud_init and images folders.`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return strings.Split(packageTypeNames(), ", "), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			pkgType, err := osmpkg.ParsePackageType(args[0])
			if err != nil {
				return err
			}
			opts.Type = pkgType
			opts.Name = args[1]

			tool, err := app.tool()
			if err != nil {
				return err
			}
			result, err := tool.Create(cmd.Context(), opts)
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("create package").
					WithResource(opts.Name).
					Wrap(err).
					BuildError()
			}

			for _, f := range result.Folders {
				fmt.Fprintf(app.stdout, "%s %s/\n", SuccessStyle.Render("✓"), f)
			}
			for _, f := range result.Files {
				fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("✓"), f)
			}
			fmt.Fprintf(app.stdout, "Package created at %s\n", KeyStyle.Render(result.PackageDir))
			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVar(&opts.BaseDirectory, "base-directory", ".", "folder the package is created in")
	f.BoolVar(&opts.Override, "override", false, "overwrite existing files")
	f.StringVar(&opts.Image, "image", "image-name", "VDU image name")
	f.IntVar(&opts.VDUs, "vdus", 1, "number of VDUs (vnf) or constituent VNFs (ns)")
	f.IntVar(&opts.VCPU, "vcpu", 1, "virtual CPUs per VDU")
	f.IntVar(&opts.Memory, "memory", 1024, "memory per VDU in MB")
	f.IntVar(&opts.Storage, "storage", 10, "storage per VDU in GB")
	f.IntVar(&opts.Interfaces, "interfaces", 0, "additional interfaces per VDU")
	f.StringVar(&opts.Vendor, "vendor", "OSM", "descriptor vendor")
	f.BoolVar(&opts.Detailed, "detailed", false, "include optional descriptor sections")
	f.IntVar(&opts.NetsliceSubnets, "netslice-subnets", 1, "number of slice subnets (nst)")
	f.IntVar(&opts.NetsliceVLDs, "netslice-vlds", 1, "number of slice virtual links (nst)")

	return cmd
}

func newPackageValidateCommand(app *App) *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "package-validate [base-directory]",
		Short: "Validate every descriptor under a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			tool, err := app.tool()
			if err != nil {
				return err
			}
			records, err := tool.Validate(cmd.Context(), dir, recursive)
			if err != nil {
				return issue.WrapWithContext(err, "validate descriptors", dir)
			}

			failed := 0
			rows := make([]table.Row, 0, len(records))
			for _, r := range records {
				status := validOKStyle.Render(string(r.Valid))
				if r.Valid != osmpkg.ValidationOK {
					failed++
					status = validErrorStyle.Render(string(r.Valid))
				}
				rows = append(rows, table.Row{r.Type, r.Path, status, r.Error})
			}

			p := newPrinter(app.stdout, app.cfg)
			if p.format == config.OutputFormatTable {
				fmt.Fprintf(app.stdout, "Base directory: %s\n%d descriptors found to validate\n", dir, len(records))
			}
			if err := p.table(table.Row{"type", "path", "valid", "error"}, rows, records); err != nil {
				return err
			}

			if failed > 0 {
				return &ExitError{
					Code: types.ExitFailure,
					Err:  fmt.Errorf("%d of %d descriptors failed validation", failed, len(records)),
				}
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&recursive, "recursive", true, "descend into subfolders")
	return cmd
}

func newPackageBuildCommand(app *App) *cobra.Command {
	var opts osmpkg.BuildOptions

	cmd := &cobra.Command{
		Use:   "package-build <package-folder>",
		Short: "Build a tar.gz package from a package folder",
		Long: `Build a package archive.

The descriptor is validated, referenced charms are resolved (and built from
charms/layers when needed), a checksum manifest is written into the folder
and <package>.tar.gz is created next to the folder.`,
		Args: cobra.ExactArgs(1),
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			folder := args[0]

			tool, err := app.tool()
			if err != nil {
				return err
			}
			result, err := tool.Build(cmd.Context(), folder, opts)
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("build package").
					WithResource(folder).
					WithSuggestions(buildSuggestions(err, folder)...).
					Wrap(err).
					BuildError()
			}

			if len(result.Charms) > 0 {
				fmt.Fprintf(app.stdout, "Charms: %s\n", strings.Join(result.Charms, ", "))
			}
			fmt.Fprintf(app.stdout, "%s Checksums written to %s\n", SuccessStyle.Render("✓"), result.ChecksumPath)
			fmt.Fprintf(app.stdout, "%s Package created: %s\n", SuccessStyle.Render("✓"), KeyStyle.Render(result.ArchivePath))
			return nil
		}),
	}

	cmd.Flags().BoolVar(&opts.SkipValidation, "skip-validation", false, "do not validate the descriptor")
	cmd.Flags().BoolVar(&opts.SkipCharmBuild, "skip-charm-build", false, "do not build or check charms")
	return cmd
}

// buildSuggestions returns recovery hints for the package-build failures a
// user can fix from the command line.
func buildSuggestions(err error, folder string) []string {
	var notFound *osmpkg.NotFoundError
	switch {
	case errors.As(err, &notFound) && notFound.Kind == osmpkg.NotFoundCharm:
		return []string{
			fmt.Sprintf("Place the built charm in %s/charms/%s or its source in %s/charms/layers/%s",
				folder, notFound.Name, folder, notFound.Name),
			"Pass --skip-charm-build to package without checking charms",
		}
	case errors.Is(err, osmpkg.ErrValidation):
		return []string{
			fmt.Sprintf("Run 'osm package-validate %s' to list every descriptor problem", folder),
			"Pass --skip-validation to package anyway",
		}
	case errors.Is(err, osmpkg.ErrBuildTool):
		return []string{"Check package.build_command in 'osm config show'"}
	}
	return nil
}
