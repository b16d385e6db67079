package config

const (
	defaultDataDir      = "./data"
	defaultOutputDir    = "./transcripts"
	defaultStateDir     = "~/.local/share/transcriber"
	defaultLogDir       = "~/.local/share/transcriber/logs"
	defaultModel        = "base"
	defaultLanguage     = "auto"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultCUDAIndexURL = "https://download.pytorch.org/whl/cu121"
	defaultCPUIndexURL  = "https://download.pytorch.org/whl/cpu"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		Tools: Tools{
			LibraryMode: true,
		},
		Transcription: Transcription{
			Model:    defaultModel,
			Language: defaultLanguage,
		},
		Runtime: Runtime{
			AutoInstall:  true,
			CUDAIndexURL: defaultCUDAIndexURL,
			CPUIndexURL:  defaultCPUIndexURL,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
