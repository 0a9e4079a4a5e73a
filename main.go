// SPDX-License-Identifier: MPL-2.0

package main

import cmd "cellar-cli/cmd/cellar"

func main() {
	cmd.Execute()
}
