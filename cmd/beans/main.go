// Beans loads XML bean definition documents into a registry and reports on
// them.
//
// Usage:
//
//	# Load the sources named in beans.yaml and print a summary
//	beans load
//
//	# Load explicit files or directories
//	beans load conf/app.xml conf/services/
//
//	# Check every source and report all problems at once
//	beans lint --strict
//
//	# Show one definition
//	beans get dataSource
//
//	# Reload on change, serving metrics and health endpoints
//	beans watch
//
//	# Show recent loads from the journal
//	beans history --limit 20
package main

func main() {
	Execute()
}
