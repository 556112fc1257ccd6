// Command calassist is a terminal and browser front-end for the calendar
// assistant backend.
package main

import "github.com/teemow/calassist/cmd"

// Set with -ldflags "-X main.version=..." at release time.
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
