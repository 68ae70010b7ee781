package version

// Current defines the application version.
// It defaults to "dev" and is overwritten at build time with
// -ldflags "-X github.com/Moula-byte/predictive-maintenance-dashboard/pkg/version.Current=...".
var Current = "dev"

// AppName is used for the binary banner and the telemetry service name.
const AppName = "sensordash"
