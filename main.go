package main

import "drawboard/cmd"

func main() {
	cmd.Execute()
}
