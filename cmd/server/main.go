package main

import "github.com/crashmonitor/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
