// Command transcriber downloads the audio behind a media URL, runs it through
// a local Whisper model, and writes one Markdown transcript per item.
//
// Subcommands:
//
//	run <url>       transcribe a video or playlist
//	doctor          report tool availability and environment checks
//	history         list recent runs recorded in the state database
//	models          list the Whisper models the engine accepts
//	config init     write a sample configuration file
//	config show     print the effective configuration
package main
