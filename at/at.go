package at

const (
	// Terminal Control
	CRLF = "\r\n"

	// Request frames
	CmdConnect   = "AT+DMOCONNECT"
	CmdScan      = "S+"
	CmdSetGroup  = "AT+DMOSETGROUP="
	CmdSetVolume = "AT+DMOSETVOLUME="
	CmdSetFilter = "AT+SETFILTER="
	CmdSetTail   = "AT+SETTAIL="
	CmdRSSI      = "RSSI?"
	CmdReadGroup = "AT+DMOREADGROUP"
	CmdVersion   = "AT+VERSION"

	// Response markers
	ConnectOK   = "+DMOCONNECT:0"
	ScanFound   = "S=0"
	ScanNone    = "S=1"
	SetGroupOK  = "+DMOSETGROUP:0"
	SetVolumeOK = "+DMOSETVOLUME:0"
	SetFilterOK = "+DMOSETFILTER:0"
	SetTailOK   = "+DMOSETTAIL:0"

	// Query reply prefixes
	RSSIPrefix      = "RSSI:"
	ReadGroupPrefix = "+DMOREADGROUP:"
	VersionPrefix   = "+VERSION:"

	// NoTone is the tone code that disables CTCSS/DCS.
	NoTone = "0000"
)

// Operation identifies one command family of the module.
type Operation int

const (
	OpConnect Operation = iota
	OpScan
	OpSetGroup
	OpSetVolume
	OpSetFilter
	OpSetTail
	OpReadRSSI
	OpReadGroup
	OpVersion
)

func (o Operation) String() string {
	switch o {
	case OpConnect:
		return "connect"
	case OpScan:
		return "scan"
	case OpSetGroup:
		return "set_group"
	case OpSetVolume:
		return "set_volume"
	case OpSetFilter:
		return "set_filter"
	case OpSetTail:
		return "set_tail"
	case OpReadRSSI:
		return "rssi"
	case OpReadGroup:
		return "read_group"
	case OpVersion:
		return "version"
	default:
		return "unknown"
	}
}

// ParseOperation maps the lower-case operation name used by String back to
// the Operation.
func ParseOperation(name string) (Operation, bool) {
	for op := OpConnect; op <= OpVersion; op++ {
		if op.String() == name {
			return op, true
		}
	}
	return 0, false
}

// Result is the two-valued outcome of a classified command.
type Result int

const (
	ResultOK    Result = iota // success marker seen
	ResultError               // negative acknowledgment or no reply
)

func (r Result) String() string {
	if r == ResultOK {
		return "ok"
	}
	return "error"
}
