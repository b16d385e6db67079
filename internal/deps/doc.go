// Package deps locates the external executables a transcription run depends on
// (ffmpeg, yt-dlp, and a Python interpreter) and reports their availability for
// the doctor command. Overrides must name existing files; discovery searches
// PATH first and then platform lookup commands.
package deps
