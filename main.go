package main

import "mreg-cli/cmd"

func main() {
	cmd.Execute()
}
