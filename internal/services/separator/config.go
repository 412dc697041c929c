package separator

// Config captures runtime settings for the audio-separator CLI.
type Config struct {
	// Binary is the audio-separator executable name or path.
	Binary string
	// Model is the separation model filename (e.g., "UVR-MDX-NET-Voc_FT.onnx").
	Model string
	// ModelDir overrides where the model files are cached. Empty uses the tool default.
	ModelDir string
	// SingleStem limits output to one stem ("Vocals"). Empty emits every stem.
	SingleStem string
	// StemMarker is the filename fragment that identifies the vocal stem.
	StemMarker string
	// ExtraArgs are appended verbatim after the generated arguments.
	ExtraArgs []string
}

// Separator defaults.
const (
	DefaultBinary     = "audio-separator"
	DefaultModel      = "UVR-MDX-NET-Voc_FT.onnx"
	DefaultSingleStem = "Vocals"
	DefaultStemMarker = "(Vocals)"
	OutputFormat      = "WAV"
)
