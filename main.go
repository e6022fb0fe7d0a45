// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/osmnfv/osm/cmd/osm"

func main() {
	cmd.Execute()
}
