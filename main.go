package main

import "modscan/cmd"

func main() {
	cmd.Execute()
}
