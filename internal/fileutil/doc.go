// Package fileutil holds small filesystem helpers shared by the writers.
package fileutil
