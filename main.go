package main

import "github.com/notargets/gosg/cmd"

func main() {
	cmd.Execute()
}
