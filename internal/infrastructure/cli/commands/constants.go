package commands

// Error messages
const (
	ErrHistoryStoreUnavailable  = "history store unavailable"
	ErrCacheStoreUnavailable    = "cache store unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrKeyRequired              = "--key is required"
)

// Status messages
const (
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgNoCachedResponses        = "No cached responses."
	MsgNoDifferencesFromDefault = "No differences from default configuration."
)

// DisplayTimestampFormat renders history timestamps in list output.
const DisplayTimestampFormat = "2006-01-02 15:04:05"
