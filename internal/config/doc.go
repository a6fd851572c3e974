// Package config provides configuration management for the demo service.
//
// Configuration is loaded from environment variables using the env package,
// optionally seeded from a .env file. Defaults match the historical
// hard-coded listener (0.0.0.0:8080).
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
