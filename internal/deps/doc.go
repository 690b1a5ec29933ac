// Package deps checks availability of external binaries before the pipeline
// commits to a request.
package deps
