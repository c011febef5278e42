package main

import "go-violet/cmd"

func main() {
	cmd.Execute()
}
