package main

import "github.com/kozaktomas/mirage/cmd"

func main() {
	cmd.Execute()
}
