package main

import "depmgr.software/dependency-manager/cli/cmd"

func main() {
	cmd.Execute()
}
