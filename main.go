package main

import "example.com/backstage/services/deliverynote/cmd"

func main() {
	cmd.Execute()
}
