package dto

type OptionInfo struct {
	ID           string
	Name         string
	Description  string
	MetricsCount int
	Recommended  bool
	Connector    string
	Status       string
	SyncProgress int
}

// SyncEvent reports one mutation made by a running sync task.
type SyncEvent struct {
	Platform string
	Status   string
	Progress int
	Done     bool
}

type ConnectorInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Platforms       int
	Error           string
}
