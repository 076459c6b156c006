package logging

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestHTTPRequest(t *testing.T) {
	t.Parallel()

	p := &HTTPPayload{}
	assert.Equal(t, p, HTTPRequest(p).Interface.(*HTTPPayload))
}

func TestNewHTTPPayload(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/api/v1/identicons/example.com?size=64", nil)
	req.Header.Set("User-Agent", "Test")
	req.Header.Set("Referer", "/")

	p := NewHTTPPayload(req, 200, 1234, "127.0.0.1", 12*time.Millisecond)

	assert.Equal(t, "GET", p.RequestMethod)
	assert.Equal(t, "/api/v1/identicons/example.com?size=64", p.RequestURL)
	assert.Equal(t, 200, p.Status)
	assert.Equal(t, "1234", p.ResponseSize)
	assert.Equal(t, "Test", p.UserAgent)
	assert.Equal(t, "/", p.Referer)
	assert.Equal(t, "127.0.0.1", p.RemoteIP)
	assert.Equal(t, "0.012000000s", p.Latency)
	assert.Equal(t, "HTTP/1.1", p.Protocol)
}

func TestHTTPPayload_MarshalLogObject(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	p := &HTTPPayload{
		RequestMethod: "GET",
		RequestURL:    "/test",
		RequestSize:   "123",
		Status:        200,
		ResponseSize:  "2222",
		UserAgent:     "Test",
		RemoteIP:      "127.0.0.1",
		Referer:       "/",
		Latency:       "0.012s",
		CacheHit:      true,
		Protocol:      "HTTP/1.1",
	}

	enc := zapcore.NewMapObjectEncoder()

	if assert.NoError(p.MarshalLogObject(enc)) {
		assert.EqualValues(p.RequestMethod, enc.Fields["requestMethod"])
		assert.EqualValues(p.RequestURL, enc.Fields["requestUrl"])
		assert.EqualValues(p.RequestSize, enc.Fields["requestSize"])
		assert.EqualValues(p.Status, enc.Fields["status"])
		assert.EqualValues(p.ResponseSize, enc.Fields["responseSize"])
		assert.EqualValues(p.UserAgent, enc.Fields["userAgent"])
		assert.EqualValues(p.RemoteIP, enc.Fields["remoteIp"])
		assert.EqualValues(p.Referer, enc.Fields["referer"])
		assert.EqualValues(p.Latency, enc.Fields["latency"])
		assert.EqualValues(p.CacheHit, enc.Fields["cacheHit"])
		assert.EqualValues(p.Protocol, enc.Fields["protocol"])
	}
}
