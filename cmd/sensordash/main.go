package main

import "github.com/Moula-byte/predictive-maintenance-dashboard/cmd/sensordash/commands"

func main() {
	commands.Execute()
}
