// Package main is the entry of the dtnsim command line tool.
package main

import "github.com/sarchlab/dtnsim/cmd/dtnsim/cmd"

func main() {
	cmd.Execute()
}
