package main

import "pass-fxa/cmd"

func main() {
	cmd.Execute()
}
