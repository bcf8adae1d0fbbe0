package main

import "roadweave-backend/cmd"

func main() {
	cmd.Run()
}
