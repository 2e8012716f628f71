package config

const (
	defaultInputDir       = "~/pseudonym/input"
	defaultOutputDir      = "~/pseudonym/output"
	defaultQuarantineDir  = "~/pseudonym/quarantine"
	defaultStoreDir       = "~/.local/share/pseudonym"
	defaultLogDir         = "~/.local/share/pseudonym/logs"
	defaultLogFormat      = "text"
	defaultLogLevel       = "info"
	defaultLinksDelimiter = ","
	defaultWorkers        = 1
)

var defaultModalities = []string{"mr", "ct"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:      defaultInputDir,
			OutputDir:     defaultOutputDir,
			QuarantineDir: defaultQuarantineDir,
			StoreDir:      defaultStoreDir,
			LogDir:        defaultLogDir,
		},
		Links: Links{
			Delimiter: defaultLinksDelimiter,
		},
		Pipeline: Pipeline{
			Workers:        defaultWorkers,
			Modalities:     append([]string(nil), defaultModalities...),
			SkipDuplicates: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
