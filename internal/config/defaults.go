package config

const (
	defaultDataDir              = "~/.local/share/hermes"
	defaultLogDir               = "~/.local/share/hermes/logs"
	defaultRemoteKind           = RemoteWebDAV
	defaultRemoteTimeout        = 15
	defaultS3Region             = "us-east-1"
	defaultSyncInterval         = 30
	defaultSyncStartDelay       = 2
	defaultFetchLimit           = 500
	defaultSearchLimit          = 200
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// defaultZones mirrors the shelf layout of the intake counter: shelves A-D,
// the floor row E-1..E-4 and the overflow area F.
var defaultZones = []string{"A", "B", "C", "D", "E-1", "E-2", "E-3", "E-4", "F"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	zones := make([]string, len(defaultZones))
	copy(zones, defaultZones)
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Remote: Remote{
			Kind:           defaultRemoteKind,
			TimeoutSeconds: defaultRemoteTimeout,
			S3: S3{
				Region: defaultS3Region,
			},
		},
		Sync: Sync{
			Enabled:           true,
			IntervalSeconds:   defaultSyncInterval,
			StartDelaySeconds: defaultSyncStartDelay,
		},
		Intake: Intake{
			Zones:       zones,
			FetchLimit:  defaultFetchLimit,
			SearchLimit: defaultSearchLimit,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			SyncErrors:     true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
