package outcome

// Kind classifies the outcome of a user action.
type Kind int

const (
	// KindSuccess means the backend accepted the request.
	KindSuccess Kind = iota
	// KindValidation means the input was rejected locally; no call was made.
	KindValidation
	// KindBackendRejection means the backend answered with a 4xx status.
	KindBackendRejection
	// KindTransport means the backend could not be reached or the exchange broke.
	KindTransport
	// KindUnknown covers every other failure, including 5xx responses.
	KindUnknown
)

// String returns the label used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindValidation:
		return "validation_error"
	case KindBackendRejection:
		return "backend_rejection"
	case KindTransport:
		return "transport_error"
	default:
		return "unknown_error"
	}
}

// Result is the tagged outcome of a chat turn or a credential submission.
//
// Text is the user-facing message for this outcome, with any prefix already
// applied. Detail is the raw explanation extracted from the failure (the
// backend's detail for rejections), empty on success. Err is the underlying
// error, if any, for logging.
type Result struct {
	Kind   Kind
	Text   string
	Detail string
	Err    error
}

// OK reports whether the outcome is a success.
func (r Result) OK() bool {
	return r.Kind == KindSuccess
}

// Display returns the text to show or record in the transcript.
func (r Result) Display() string {
	return r.Text
}

// Success builds a successful result carrying text.
func Success(text string) Result {
	return Result{Kind: KindSuccess, Text: text}
}

// Validation builds a result for input rejected before any call was made.
func Validation(text string) Result {
	return Result{Kind: KindValidation, Text: text, Detail: text}
}

// Rejection builds a result for a 4xx answer. text is the rendered message,
// detail the backend's explanation.
func Rejection(text, detail string, err error) Result {
	return Result{Kind: KindBackendRejection, Text: text, Detail: detail, Err: err}
}

// Transport builds a result for a call that could not complete.
func Transport(text string, err error) Result {
	return Result{Kind: KindTransport, Text: text, Detail: errorText(err), Err: err}
}

// Unknown builds a result for any other failure.
func Unknown(text string, err error) Result {
	return Result{Kind: KindUnknown, Text: text, Detail: errorText(err), Err: err}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
