// Package acquire downloads the audio behind a video or playlist URL and
// prepares one mono 16 kHz WAV file per item.
//
// Two strategies exist. The library strategy drives yt-dlp through the
// go-ytdlp builder and can provision its own yt-dlp build; the CLI strategy
// shells out to a resolved yt-dlp binary. One is chosen per run by
// SelectStrategy. Both produce a manifest that NormalizeEntries flattens, after
// which every entry's file is located, converted if needed, and validated.
package acquire
