package main

import "github.com/brogergvhs/tocpdf/cmd"

func main() {
	cmd.Execute()
}
