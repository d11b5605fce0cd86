// SPDX-License-Identifier: MPL-2.0

package main

import cmd "clidev/cmd/clidev"

func main() {
	cmd.Execute()
}
