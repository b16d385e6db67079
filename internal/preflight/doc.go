// Package preflight runs the environment checks behind `transcriber doctor`:
// working directory access, external tool discovery, and the Python modules
// the engine needs.
package preflight
