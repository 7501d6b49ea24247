// flags.go defines constants for all CLI flag names.
//
// Using constants instead of string literals prevents typos and enables
// compile-time checking when flag names are used in both Flags().Type()
// definitions and GetType() calls.
//
// Naming convention: Flag<PascalCaseName> where name matches the kebab-case
// CLI flag (e.g., "dry-run" -> FlagDryRun).

package extension

// Flag name constants for CLI commands.
// These are used with cobra's Flags().Type() and GetType() methods.
const (
	// Boolean flags

	FlagCount     = "count"      // Output count only
	FlagDeleted   = "deleted"    // Include/show deleted items
	FlagDryRun    = "dry-run"    // Preview without making changes
	FlagForce     = "force"      // Skip confirmation / overwrite
	FlagJSON      = "json"       // JSON output
	FlagLocal     = "local"      // Use local scope (gitignored)
	FlagLong      = "long"       // Long format output
	FlagPathsOnly = "paths-only" // Output paths only
	FlagShare     = "share"      // Mark as shared (committed)
	FlagTree      = "tree"       // Tree format output

	// String flags

	FlagCapability = "capability" // Capability name filter/value
	FlagKind       = "kind"       // Object kind filter/value
	FlagOlderThan  = "older-than" // Duration threshold
	FlagPath       = "path"       // Path prefix filter
	FlagRuleset    = "ruleset"    // Ruleset name
	FlagSource     = "source"     // Allowed source kinds/capabilities (repeatable)
	FlagTarget     = "target"     // Allowed target kinds/capabilities (repeatable)
	FlagTitle      = "title"      // Human-readable title
	FlagVariant    = "variant"    // Rule variant: kind or capability

	// Integer flags

	FlagLimit    = "limit"    // Limit number of results
	FlagPosition = "position" // Rule position within a ruleset
)
