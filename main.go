package main

import "github.com/itsmostafa/docidx/cmd"

func main() {
	cmd.Execute()
}
