// The main package for the forum-harvester executable.
package main

import (
	"github.com/JakeFAU/forum-harvester/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
