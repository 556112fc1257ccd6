package instrumentation

// StatusClass reduces an HTTP status code to its class ("2xx", "4xx", ...)
// so backend metrics carry a bounded label set. A zero code means the call
// never produced a response.
//
// Example:
//
//	StatusClass(201) // "2xx"
//	StatusClass(404) // "4xx"
//	StatusClass(0)   // "none"
func StatusClass(code int) string {
	switch {
	case code == 0:
		return "none"
	case code >= 100 && code < 200:
		return "1xx"
	case code < 300 && code >= 200:
		return "2xx"
	case code < 400 && code >= 300:
		return "3xx"
	case code < 500 && code >= 400:
		return "4xx"
	case code < 600 && code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
