package main

import "github.com/qcbit/powchain/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
