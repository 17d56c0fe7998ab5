package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/DocQueryAPI/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooledClient *http.Client
var once sync.Once

// PooledClient returns a shared client so the OpenAI embedder and chat
// provider reuse upstream connections instead of redialing per request.
func PooledClient() *http.Client {
	once.Do(func() {
		pooledClient = &http.Client{Transport: customTransport}
	})
	return pooledClient
}
