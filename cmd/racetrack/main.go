// Command racetrack runs scripted, random or manually controlled
// policies on the racetrack environments, tracks the episodic data they
// generate and renders episodes to PNG frames.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
