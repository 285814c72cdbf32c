package main

import "Inventory/internal/cli"

func main() {
	cli.Execute()
}
