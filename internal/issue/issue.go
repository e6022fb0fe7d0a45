// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	PackageNotFoundId Id = iota + 1
	DescriptorNotFoundId
	DescriptorInvalidId
	CharmNotFoundId
	BuildToolFailedId
	PackagingFailedId
	ServerUnreachableId
	AuthenticationFailedId
	ResourceNotFoundId
	OperationTimeoutId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // lookup key
	mdMsg    MarkdownMsg // rendered with glamour
	docLinks []HttpLink
	extLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue guidance as terminal Markdown using the given
// glamour style ("dark", "light", "notty" or a JSON style path).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	packageNotFoundIssue = &Issue{
		id: PackageNotFoundId,
		mdMsg: `
# Package folder not found!

The folder given to 'osm package-build' does not exist or is not a directory.

## Things you can try:
- Check the path for typos
- Create a package skeleton first:
~~~
$ osm package-create vnf myvnf
~~~`,
	}

	descriptorNotFoundIssue = &Issue{
		id: DescriptorNotFoundId,
		mdMsg: `
# No descriptor found!

A package folder must contain one descriptor file matching '*.yaml' at its top level.

## Things you can try:
- Make sure the descriptor sits directly inside the package folder, not in a subfolder
- Run the validator on the folder to see what it found:
~~~
$ osm package-validate ./myvnf_vnf
~~~`,
	}

	descriptorInvalidIssue = &Issue{
		id: DescriptorInvalidId,
		mdMsg: `
# Descriptor validation failed!

The descriptor could not be parsed or does not match the expected structure.

## Common issues:
- Invalid YAML indentation
- Missing top-level 'vnfd', 'nsd' or 'nst' section
- Missing 'id' field

## Things you can try:
- Fix the error reported above and validate again
- Skip validation when you know the descriptor is accepted by the server:
~~~
$ osm package-build --skip-validation ./myvnf_vnf
~~~`,
		extLinks: []HttpLink{"https://osm.etsi.org/docs/user-guide/"},
	}

	charmNotFoundIssue = &Issue{
		id: CharmNotFoundId,
		mdMsg: `
# Charm not found!

The descriptor references a charm that is neither in 'charms/<name>' nor in 'charms/layers/<name>'.

## Things you can try:
- Check the charm name in the descriptor for typos
- Place the built charm under 'charms/<name>'
- Place the charm source under 'charms/layers/<name>' so it can be built`,
	}

	buildToolFailedIssue = &Issue{
		id: BuildToolFailedId,
		mdMsg: `
# Charm build failed!

The external charm build tool exited with an error.

## Things you can try:
- Check the build tool output above
- Make sure the build tool is installed and on your PATH
- Configure another build command in your config file:
~~~cue
package: {
	build_command: "charmcraft pack --project-dir \"$CHARM_SOURCE\""
}
~~~
- Skip the build step if the charms are already built:
~~~
$ osm package-build --skip-charm-build ./myvnf_vnf
~~~`,
	}

	packagingFailedIssue = &Issue{
		id: PackagingFailedId,
		mdMsg: `
# Packaging failed!

The package could not be assembled, checksummed or archived.

## Things you can try:
- Check that you can write to the package folder and its parent
- Remove a stale 'tmp' folder inside the package folder
- Check free disk space`,
	}

	serverUnreachableIssue = &Issue{
		id: ServerUnreachableId,
		mdMsg: `
# Cannot reach the OSM server!

The northbound API did not answer.

## Things you can try:
- Check the hostname and port:
~~~
$ osm --hostname 10.0.0.5 --so-port 9999 version
~~~
- Set them once in the environment:
~~~
$ export OSM_HOSTNAME=10.0.0.5
~~~`,
	}

	authenticationFailedIssue = &Issue{
		id: AuthenticationFailedId,
		mdMsg: `
# Authentication failed!

The server rejected the credentials.

## Things you can try:
- Check '--user', '--password' and '--project'
- Check OSM_USER, OSM_PASSWORD and OSM_PROJECT in your environment`,
	}

	resourceNotFoundIssue = &Issue{
		id: ResourceNotFoundId,
		mdMsg: `
# Resource not found!

No SDN controller or WIM matches the given name or id.

## Things you can try:
- List what exists:
~~~
$ osm sdnc-list
$ osm wim-list
~~~`,
	}

	operationTimeoutIssue = &Issue{
		id: OperationTimeoutId,
		mdMsg: `
# Operation timed out!

The resource did not reach its final state in time.

## Things you can try:
- Raise the wait timeout:
~~~
$ OSM_WAIT_TIMEOUT=20m osm sdnc-create --wait ...
~~~
- Check the resource status with 'osm sdnc-show' or 'osm wim-show'`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Print the file location and the effective values:
~~~
$ osm config path
$ osm config show
~~~
- Write a fresh documented file:
~~~
$ osm config init
~~~`,
	}

	issues = map[Id]*Issue{
		packageNotFoundIssue.Id():      packageNotFoundIssue,
		descriptorNotFoundIssue.Id():   descriptorNotFoundIssue,
		descriptorInvalidIssue.Id():    descriptorInvalidIssue,
		charmNotFoundIssue.Id():        charmNotFoundIssue,
		buildToolFailedIssue.Id():      buildToolFailedIssue,
		packagingFailedIssue.Id():      packagingFailedIssue,
		serverUnreachableIssue.Id():    serverUnreachableIssue,
		authenticationFailedIssue.Id(): authenticationFailedIssue,
		resourceNotFoundIssue.Id():     resourceNotFoundIssue,
		operationTimeoutIssue.Id():     operationTimeoutIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
