package main

import "github.com/nathanhack/eccfault/cmd"

func main() {
	cmd.Execute()
}
