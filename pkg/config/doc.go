// Package config provides configuration management for the bean loader.
//
// Configuration is read from YAML, completed with defaults and validated:
//
//	cfg, err := config.LoadConfig("beans.yaml")
//
// or, with environment variable overrides applied after the file:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("beans.yaml")
//
// # Environment Variable Overrides
//
// Variables follow the naming convention BEANS_SECTION_FIELD, for example:
//
//   - BEANS_BEANS_ACTIVE_PROFILES overrides beans.active_profiles (comma separated)
//   - BEANS_JOURNAL_PATH overrides journal.path
//   - BEANS_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example
//
//	beans:
//	  sources: ["conf/app-context.xml"]
//	  active_profiles: ["dev"]
//	  shorthand:
//	    ref_suffixes: ["-ref", "Ref"]
//	  types:
//	    TestBean: [ITestBean]
//	  watch: true
//	journal:
//	  enabled: true
//	  backend: sqlite
//	  path: data/journal.db
//	telemetry:
//	  logging:
//	    level: debug
//	    format: text
package config
