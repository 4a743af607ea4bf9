// Package config holds runtime configuration for casescan.
//
// Configuration comes from three layers, lowest priority first:
// built-in defaults (NewConfig), the YAML case file (.casescan), and
// CLI flags. The Config struct is populated once at startup and passed
// through the application by dependency injection; there is no global
// configuration state.
package config
