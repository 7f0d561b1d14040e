package main

import "github.com/fekuna/omnipos-inventory-web/cmd/inventory/commands"

func main() {
	commands.Execute()
}
