package config

const (
	defaultDataDir             = "~/.local/share/sceneforge"
	defaultLogDir              = "~/.local/share/sceneforge/logs"
	defaultLogLevel            = "info"
	defaultLogFormat           = "console"
	defaultServiceTimeout      = 120
	defaultKnowledgeTimeout    = 30
	defaultKnowledgeRetries    = 3
	defaultVisionTimeout       = 30
	defaultMaxStepRetries      = 5
	defaultMaxTotalIterations  = 20
	defaultAcceptanceThreshold = 0.7
	defaultBatchConcurrency    = 2
	defaultFrameOffsetSeconds  = 0.1
	defaultVideoFPS            = 24
	defaultVideoResolution     = "1280x720"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		KnowledgeGraph: KnowledgeGraph{
			TimeoutSeconds: defaultKnowledgeTimeout,
			RetryAttempts:  defaultKnowledgeRetries,
		},
		ImageGeneration: ImageGeneration{
			TimeoutSeconds: defaultServiceTimeout,
		},
		VideoGeneration: VideoGeneration{
			FPS:            defaultVideoFPS,
			Resolution:     defaultVideoResolution,
			TimeoutSeconds: defaultServiceTimeout,
		},
		Vision: Vision{
			TimeoutSeconds: defaultVisionTimeout,
		},
		Compositor: Compositor{
			MaxStepRetries:      defaultMaxStepRetries,
			MaxTotalIterations:  defaultMaxTotalIterations,
			AcceptanceThreshold: defaultAcceptanceThreshold,
		},
		Pipeline: Pipeline{
			BatchConcurrency:   defaultBatchConcurrency,
			FrameOffsetSeconds: defaultFrameOffsetSeconds,
		},
	}
}
