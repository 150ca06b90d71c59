// Package main provides the entry point of RecipeSync.
// It serves a recipe list either from a remote JSON feed or from a local database
// copy, selected by a persisted online mode flag, through a cobra CLI and a small
// JSON API built on fiber. The local copy is seeded once from the remote feed and
// persisted with gorm.
package main
