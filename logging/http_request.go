package logging

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// HTTPRequest Cloud Logging httpRequest Field
func HTTPRequest(req *HTTPPayload) zap.Field {
	return zap.Object("httpRequest", req)
}

// HTTPPayload Cloud Logging httpRequest Payload
type HTTPPayload struct {
	RequestMethod string `json:"requestMethod"`
	RequestURL    string `json:"requestUrl"`
	RequestSize   string `json:"requestSize"`
	Status        int    `json:"status"`
	ResponseSize  string `json:"responseSize"`
	UserAgent     string `json:"userAgent"`
	RemoteIP      string `json:"remoteIp"`
	Referer       string `json:"referer"`
	Latency       string `json:"latency"`
	CacheHit      bool   `json:"cacheHit"`
	Protocol      string `json:"protocol"`
}

// NewHTTPPayload リクエストとレスポンスの情報からHTTPPayloadを作成します
func NewHTTPPayload(req *http.Request, status int, responseSize int64, remoteIP string, latency time.Duration) *HTTPPayload {
	return &HTTPPayload{
		RequestMethod: req.Method,
		RequestURL:    req.URL.String(),
		RequestSize:   req.Header.Get("Content-Length"),
		Status:        status,
		ResponseSize:  strconv.FormatInt(responseSize, 10),
		UserAgent:     req.UserAgent(),
		RemoteIP:      remoteIP,
		Referer:       req.Referer(),
		Latency:       strconv.FormatFloat(latency.Seconds(), 'f', 9, 64) + "s",
		Protocol:      req.Proto,
	}
}

// MarshalLogObject implements zapcore.ObjectMarshaller interface.
func (p HTTPPayload) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("requestMethod", p.RequestMethod)
	enc.AddString("requestUrl", p.RequestURL)
	enc.AddString("requestSize", p.RequestSize)
	enc.AddInt("status", p.Status)
	enc.AddString("responseSize", p.ResponseSize)
	enc.AddString("userAgent", p.UserAgent)
	enc.AddString("remoteIp", p.RemoteIP)
	enc.AddString("referer", p.Referer)
	enc.AddString("latency", p.Latency)
	enc.AddBool("cacheHit", p.CacheHit)
	enc.AddString("protocol", p.Protocol)
	return nil
}
