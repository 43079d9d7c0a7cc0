// Package config provides configuration for the console server and CLI.
//
// Configuration is layered: built-in defaults, then console.json, then
// CONSOLE_* environment variables, then command-line flags (applied by the
// CLI).
//
// # Configuration File Structure
//
//	{
//	  "addr": ":8080",
//	  "basename": "/",
//	  "maxRedirects": 8,
//	  "log": {"level": "info", "format": "json"},
//	  "metrics": {"namespace": "console", "path": "/metrics"},
//	  "modules": {
//	    "source": "s3",
//	    "bucket": "console-assets",
//	    "manifest": "release/manifest.json",
//	    "region": "us-east-1"
//	  },
//	  "api": {"baseURL": "https://cloud.onhatchet.run/api/v1"}
//	}
//
// # Environment
//
// Every key has a CONSOLE_ variable: CONSOLE_ADDR, CONSOLE_BASENAME,
// CONSOLE_LOG_LEVEL, CONSOLE_MODULES_SOURCE, CONSOLE_API_FIXTURE and so on.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger := cfg.Log.NewLogger(os.Stderr)
package config
