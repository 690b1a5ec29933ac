// Package cleanup deletes transient conversion artifacts under the
// configured policy.
//
// Source deletion is guarded twice: the path must sit under the shared cache
// root and under this deployment's token subdirectory. A path failing either
// check is skipped with a warning rather than deleted, and only regular
// files are ever removed.
package cleanup
