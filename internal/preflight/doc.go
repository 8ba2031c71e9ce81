// Package preflight provides readiness checks for the directories, database,
// editor and directory service podkit depends on. The doctor command prints
// the results; sync and download run the filesystem checks before starting.
package preflight
