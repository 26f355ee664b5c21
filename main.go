// main is the entrypoint of the auditradar CLI.
package main

import (
	"github.com/alvinmin/auditradar/cmd"
	"github.com/alvinmin/auditradar/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Error running auditradar", err)
	}
}
