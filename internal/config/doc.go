// Package config provides configuration loading for recapgen.
//
// Configuration comes from environment variables (prefix RECAP) merged over
// an optional config.yaml, with environment values taking precedence. File
// system paths are always resolved relative to the executable directory via
// the Paths type.
package config
