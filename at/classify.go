package at

import "strings"

// Markers holds the substrings that decide the outcome of a classified
// command. Failure is empty when the module has no explicit negative reply
// for the command.
type Markers struct {
	Success string
	Failure string
}

var markers = map[Operation]Markers{
	OpConnect:   {Success: ConnectOK},
	OpScan:      {Success: ScanFound, Failure: ScanNone},
	OpSetGroup:  {Success: SetGroupOK},
	OpSetVolume: {Success: SetVolumeOK},
	OpSetFilter: {Success: SetFilterOK},
	OpSetTail:   {Success: SetTailOK},
}

// MarkersFor returns the classification entry for op. Query operations have
// no entry.
func MarkersFor(op Operation) (Markers, bool) {
	m, ok := markers[op]
	return m, ok
}

// Classify maps a captured reply to a Result for op. Only the success marker
// decides: a reply carrying it is ResultOK even when the failure marker is
// also present. Anything else, including an empty reply, is ResultError.
// Failure markers are kept in the table so callers can tell a negative
// acknowledgment from silence.
func Classify(op Operation, response string) Result {
	m, ok := markers[op]
	if !ok || response == "" {
		return ResultError
	}
	if strings.Contains(response, m.Success) {
		return ResultOK
	}
	return ResultError
}
