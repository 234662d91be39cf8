package cmdutil

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/lapcompare/pkg/config"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, ParseDuration("x", "5s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("x", "five", time.Minute))
}

func TestNewClient(t *testing.T) {
	defer func(url string, headers []string) {
		config.URL, config.Headers = url, headers
	}(config.URL, config.Headers)

	config.URL = ""
	_, err := NewClient(context.Background())
	assert.Error(t, err)

	config.URL = "http://localhost:8000"
	config.Headers = []string{"X-Tenant=abc"}
	c, err := NewClient(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, c)

	config.Headers = []string{"broken"}
	_, err = NewClient(context.Background())
	assert.Error(t, err)

	config.Headers = nil
	config.TLSCAFile = "does-not-exist.pem"
	defer func() { config.TLSCAFile = "" }()
	_, err = NewClient(context.Background())
	assert.Error(t, err)
}

func TestWaitForAPI(t *testing.T) {
	defer func(url, wait string) {
		config.URL, config.WaitForAPI = url, wait
	}(config.URL, config.WaitForAPI)

	config.WaitForAPI = "0s"
	config.URL = "not a url"
	assert.NoError(t, WaitForAPI(context.Background()))

	config.WaitForAPI = "1s"
	assert.Error(t, WaitForAPI(context.Background()))

	l, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	defer l.Close()
	config.URL = "http://" + l.Addr().String() + "/"
	assert.NoError(t, WaitForAPI(context.Background()))
}
