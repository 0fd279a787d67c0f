package handlerwrapper

import "context"

type HTTPRequestInfo struct {
	URI        string `json:"uri"`
	Method     string `json:"method"`
	StatusCode int    `json:"status_code"` // response code, like 200, 404
	Size       int64  `json:"size"`        // number of bytes of the response sent
	Duration   int64  `json:"duration"`    // milliseconds spent handling

	Host      string `json:"host"` // host serving the request
	Referer   string `json:"referer,omitempty"`
	Ipaddr    string `json:"ipaddr"`
	UserAgent string `json:"user_agent"`
}

type RequestInfoHandler interface {
	Handle(ctx context.Context, ri *HTTPRequestInfo)
}
