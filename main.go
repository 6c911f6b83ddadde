package main

import "github.com/Digital-Shane/otr-tidy/internal/cmd"

func main() {
	cmd.Execute()
}
