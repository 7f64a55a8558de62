package main

import "github.com/notargets/gocsm/cmd"

func main() {
	cmd.Execute()
}
