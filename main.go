/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/
package main

import (
	"github.com/relate-io/relate/cmd"

	// Import extensions - each registers itself via init()
	_ "github.com/relate-io/relate/extension/all"
)

func main() {
	cmd.Execute()
}
