// Package config provides configuration management for the Omnitron gateway.
//
// Configuration is loaded from a YAML file (omnitron.yml) and overridden by
// OMNITRON_* environment variables. Each attribute tracks where its value
// came from (default, file, or environment). The file can be watched for
// changes to reload the configuration at runtime.
package config
