package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func jsonHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
}

func TestReadBody_RepeatedReads(t *testing.T) {
	rr := DoRequest(jsonHandler(`{"a":1,"b":2}`), httptest.NewRequest(http.MethodGet, "/", nil))

	first := ReadBody(t, rr)
	second := ReadBody(t, rr)

	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestJSONAssertions_ShareOneRecorder(t *testing.T) {
	rr := DoRequest(jsonHandler(`{"pending":3,"open_flags":1}`), httptest.NewRequest(http.MethodGet, "/", nil))

	AssertJSONHasKey(t, rr, "pending")
	AssertJSONHasKey(t, rr, "open_flags")
	AssertJSONContains(t, rr, "pending", float64(3))
}
