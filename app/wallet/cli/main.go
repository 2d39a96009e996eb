package main

import "github.com/scrollsoul/qfs/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
