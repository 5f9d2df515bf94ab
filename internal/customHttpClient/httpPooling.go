package customHttpClient

import (
	"net/http"

	"github.com/rcastellanos/InvoiceRAG/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooledClient = &http.Client{Transport: customTransport}

// Pooled returns the shared connection-pooling client used for the LLM
// endpoint, keeping latency down across streamed completions.
func Pooled() *http.Client {
	return pooledClient
}
