// Package config loads lexview's own configuration.
//
// The config lives at ~/.config/lexview/config.toml and currently carries
// two fields:
//
//	api_bind = "127.0.0.1:8000"
//	poll_seconds = 2
//
// A missing file is not an error; every field has a sensible default so
// lexview runs against a local backend with no setup. A present but
// malformed file is an error, because silently ignoring a config the user
// wrote hides typos.
package config
