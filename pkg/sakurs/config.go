package sakurs

import (
	"github.com/kuderr/sakurs-go/internal/config"
	"github.com/kuderr/sakurs-go/internal/logging"
)

// OptionsFromEnv builds Options from the process-wide defaults in
// internal/config: a YAML file at configFile (searched at common
// locations when empty) overridden by SAKURS_* environment variables,
// validated before use. It also installs the resulting logging
// configuration as the package's global logger, so a host process that
// calls this once at startup gets consistent log output from every
// subsequent Split/IterSplit call.
//
// A caller that wants full programmatic control skips this and builds
// an *Options directly; OptionsFromEnv exists for hosts that prefer a
// config file plus environment overrides, the way the teacher's own
// `LoadConfig` entry point does.
func OptionsFromEnv(configFile string) (*Options, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, err
	}
	logging.SetGlobalLogger(logger)

	return &Options{
		Language:               cfg.Output.Language,
		ExecutionMode:          cfg.Execution.Mode,
		Threads:                cfg.Execution.Threads,
		ChunkKB:                cfg.Execution.ChunkKB,
		StreamChunkMB:          cfg.Execution.StreamChunkMB,
		StreamReadRateKBPerSec: cfg.Execution.StreamReadRateKBPerSec,
		PreserveWhitespace:     cfg.Output.PreserveWhitespace,
		ReturnDetails:          cfg.Output.ReturnDetails,
		Encoding:               cfg.Output.Encoding,
	}, nil
}
