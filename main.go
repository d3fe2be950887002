package main

import "github.com/Alijeyrad/ticketcreator_backend/cmd"

func main() {
	cmd.Execute()
}
