// Package pkgconfig exposes typed getters over the YAML config file, with
// environment variables (dots replaced by underscores) taking precedence.
// Modules depend on the Config interface; NewViper is the only implementation.
package pkgconfig
