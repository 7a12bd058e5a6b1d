package main

import "github.com/nmkale/restage/cmd"

func main() {
	cmd.Execute()
}
