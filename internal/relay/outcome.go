package relay

// Kind classifies how a conversion request ended.
type Kind int

const (
	KindSuccess Kind = iota
	KindPreconditionFailed
	KindDownloadFailed
	KindTranscodeFailed
	KindSendFailed
	KindInternalError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindPreconditionFailed:
		return "precondition_failed"
	case KindDownloadFailed:
		return "download_failed"
	case KindTranscodeFailed:
		return "transcode_failed"
	case KindSendFailed:
		return "send_failed"
	case KindInternalError:
		return "internal_error"
	default:
		return "unknown"
	}
}

// Outcome summarizes a finished request for logging and the journal.
type Outcome struct {
	Kind       Kind
	OutputName string
	Diagnostic string
}
