// Package config provides configuration structures and utilities for chronoscan.
// It defines the archive query settings, report preferences, history storage
// location and the optional .chronoscan YAML file.
package config
