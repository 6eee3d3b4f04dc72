package event

// StartedData is the data for verify.started events.
type StartedData struct {
	AppPath  string `json:"appPath"`
	TSConfig string `json:"tsconfig"`
	DryRun   bool   `json:"dryRun,omitempty"`
}

// DetectedData is the data for verify.detected events.
type DetectedData struct {
	File string `json:"file"`
}

// BootstrappedData is the data for verify.bootstrapped events.
type BootstrappedData struct {
	TSConfig string `json:"tsconfig"`
}

// ChangeData is the data for change.applied events.
type ChangeData struct {
	Option  string `json:"option"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// WrittenData is the data for config.written and declarations.written events.
type WrittenData struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// FinishedData is the data for verify.finished events.
type FinishedData struct {
	Skipped        bool `json:"skipped,omitempty"`
	FirstTimeSetup bool `json:"firstTimeSetup,omitempty"`
	Changes        int  `json:"changes"`
	Written        bool `json:"written"`
}

// AbortedData is the data for verify.aborted events.
type AbortedData struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
