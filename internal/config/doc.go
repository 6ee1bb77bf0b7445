// Package config provides configuration loading, merging, and validation for
// the Hostile Planets server and client.
//
// A configuration is assembled from the following layers (later layers
// override earlier non-zero fields):
//  1. Built-in defaults
//  2. The TOML file (serverconf.toml / clientconf.toml)
//  3. Environment variables (HP_SERVER_* / HP_CLIENT_*)
//
// The main entry points are [LoadServerConf] and [LoadClientConf]. Command-line
// flags are parsed separately by [ParseLaunchFlags] and applied by the
// binaries, since they select files and addresses rather than settings.
package config
