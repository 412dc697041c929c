package config

const (
	projectConfigName       = "teasers.toml"
	defaultUserConfigPath   = "~/.config/teasers/config.toml"
	defaultCatalog          = "teasers.json"
	defaultDataDir          = "data"
	defaultSegmentsDir      = "segments"
	defaultLogDir           = "logs"
	defaultTargetSampleRate = 16000
	maxTargetSampleRate     = 384000
	defaultSubtitleEncoding = "utf-8"
	defaultSeparatorBinary  = "audio-separator"
	defaultSeparatorModel   = "UVR-MDX-NET-Voc_FT.onnx"
	defaultSingleStem       = "Vocals"
	defaultStemMarker       = "(Vocals)"
	defaultDownloadBinary   = "yt-dlp"
	defaultDownloadFormat   = "bestaudio/best"
	defaultPublishPrefix    = "teasers"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	logFileName             = "teasers.log"
	ledgerFileName          = "ledger.db"
	lockFileName            = ".teasers.lock"
)

// Default returns a Config populated with repository defaults. Relative paths
// resolve against the working directory during Load.
func Default() Config {
	return Config{
		Paths: Paths{
			Catalog:     defaultCatalog,
			DataDir:     defaultDataDir,
			SegmentsDir: defaultSegmentsDir,
			LogDir:      defaultLogDir,
		},
		Audio: Audio{
			TargetSampleRate: defaultTargetSampleRate,
			SubtitleEncoding: defaultSubtitleEncoding,
		},
		Separator: Separator{
			Binary:     defaultSeparatorBinary,
			Model:      defaultSeparatorModel,
			SingleStem: defaultSingleStem,
			StemMarker: defaultStemMarker,
		},
		Download: Download{
			Binary: defaultDownloadBinary,
			Format: defaultDownloadFormat,
		},
		Publish: Publish{
			Prefix: defaultPublishPrefix,
		},
		Logging: Logging{
			Format: defaultLogFormat,
		},
	}
}
