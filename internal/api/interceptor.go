package api

import "time"

// RequestInfo describes an outbound call, handed to interceptors before
// the request is issued.
type RequestInfo struct {
	// ID correlates the pre-call and post-call hooks for one request.
	ID            string
	Method        string
	Path          string
	Authenticated bool
}

// ResponseInfo describes the outcome of a call.
type ResponseInfo struct {
	Request RequestInfo

	// Status is the HTTP status code, or 0 when no response arrived.
	Status  int
	Err     error
	Latency time.Duration
}

// Interceptor observes gateway traffic. Instrumentation is opt-in and
// must be side-effect-free with respect to the call itself: interceptors
// cannot modify the request or the classification of its result.
type Interceptor interface {
	BeforeRequest(RequestInfo)
	AfterResponse(ResponseInfo)
}

// InterceptorFuncs adapts two funcs to the Interceptor interface. Either
// may be nil.
type InterceptorFuncs struct {
	Before func(RequestInfo)
	After  func(ResponseInfo)
}

func (f InterceptorFuncs) BeforeRequest(info RequestInfo) {
	if f.Before != nil {
		f.Before(info)
	}
}

func (f InterceptorFuncs) AfterResponse(info ResponseInfo) {
	if f.After != nil {
		f.After(info)
	}
}
