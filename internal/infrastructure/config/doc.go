// Package config handles loading and validating the dashboard core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// A missing configuration file is not an error: the dashboard is expected to
// run out of the box on local storage with MQTT disabled.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Home.MinDimLevel)
package config
