// Package all imports all core relate extensions.
// Import this package to register all built-in commands.
package all

import (
	// Core extensions - each registers itself via init()
	_ "github.com/relate-io/relate/extension/core"
	_ "github.com/relate-io/relate/extension/kind"
	_ "github.com/relate-io/relate/extension/object"
	_ "github.com/relate-io/relate/extension/ref"
	_ "github.com/relate-io/relate/extension/rule"
	_ "github.com/relate-io/relate/extension/vocab"
)
