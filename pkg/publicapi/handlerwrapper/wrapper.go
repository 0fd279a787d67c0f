package handlerwrapper

import (
	"net"
	"net/http"

	"github.com/felixge/httpsnoop"
)

// HTTPHandlerWrapper captures status code, response size and duration for
// every request and hands them to a RequestInfoHandler once the response
// has been written.
type HTTPHandlerWrapper struct {
	httpHandler        http.Handler
	requestInfoHandler RequestInfoHandler
	host               string
}

func NewHTTPHandlerWrapper(host string, handler http.Handler, ri RequestInfoHandler) *HTTPHandlerWrapper {
	return &HTTPHandlerWrapper{
		httpHandler:        handler,
		requestInfoHandler: ri,
		host:               host,
	}
}

func (h *HTTPHandlerWrapper) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	ri := &HTTPRequestInfo{
		Host:      h.host,
		URI:       req.RequestURI,
		Method:    req.Method,
		Referer:   req.Referer(),
		UserAgent: req.UserAgent(),
		Ipaddr:    requestIP(req),
	}

	metrics := httpsnoop.CaptureMetrics(h.httpHandler, res, req)
	ri.StatusCode = metrics.Code
	ri.Size = metrics.Written
	ri.Duration = metrics.Duration.Milliseconds()

	h.requestInfoHandler.Handle(req.Context(), ri)
}

func requestIP(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
