// Package ytdlp wraps the yt-dlp CLI used to fetch source audio and subtitles.
//
// Download runs in two steps: a metadata probe that predicts the output file
// names, then the actual download with audio extracted to WAV.
package ytdlp
