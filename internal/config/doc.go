// Package config holds the harness configuration: fetch client
// settings (user agent, retries, timeout, response cache) and output
// preferences, loadable from a YAML file and overridable by flags.
//
// The framework core takes all of its configuration through constructor
// options; this package exists for the CLI only.
package config
