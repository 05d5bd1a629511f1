package main

import "github.com/guestpix/guestpix/cmd/guestpix/cmd"

func main() {
	cmd.Execute()
}
