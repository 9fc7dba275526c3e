package main

import "safe-authenticator/cmd/safe-cli/cmd"

func main() {
	cmd.Execute()
}
