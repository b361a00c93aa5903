package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for requests and errors.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters keyed by taxonomy code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RequestTotal returns the recorded count for a path/method/status triple.
func (m *Metrics) RequestTotal(path, method string, status int) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount[path+"|"+method+"|"+strconv.Itoa(status)]
}

// ErrorTotal returns the recorded count for a path/method/code triple.
func (m *Metrics) ErrorTotal(path, method, code string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorCount[path+"|"+method+"|"+code]
}
