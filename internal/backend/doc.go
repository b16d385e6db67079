// Package backend prepares the Python speech runtime and chooses the compute
// device the transcription engine runs on.
//
// Selection prefers CUDA, then DirectML on interpreters that still ship
// torch-directml wheels, then CPU. Missing runtime packages are installed with
// pip when auto-install is enabled. Every decision is logged so the observer
// can see why a device was or was not chosen.
package backend
