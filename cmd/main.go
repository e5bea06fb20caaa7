package main

import (
	cmd "github.com/kerbaras/mangadl/cmd/mangadl"
)

func main() {
	cmd.Execute()
}
