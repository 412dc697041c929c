// Command teasers builds a speech dataset from the catalog: it isolates the
// vocals of each entry's audio, cuts one clip per usable subtitle cue, and
// writes a manifest next to the clips.
//
// Running teasers without a subcommand processes the whole catalog. The
// download subcommand fetches the raw audio and subtitles the catalog names,
// status prints the run ledger and external tool availability, logs prints
// the JSON run log, and config init/validate manage the TOML configuration
// file.
package main
