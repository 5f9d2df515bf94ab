package middleware

import (
	"net/http"
	"strconv"

	"github.com/rcastellanos/InvoiceRAG/internal/metrics"
	"github.com/rcastellanos/InvoiceRAG/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

// Wrap runs the trace, auth and rate limit chain and records the response
// status for metrics.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

// WrapSocket is Wrap without the status recorder. The recorder hides the
// http.Hijacker the websocket upgrade needs, so the socket route gets the
// original writer and counts connections through its own gauge instead.
func WrapSocket(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		re := processRequest(requestResponseStruct{req: r, writer: w})

		if re.badRequest.isBadRequest {
			return
		}
		next(w, re.req)
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	//TODO:make this cleaner
	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re //stop if auth fails
	}
	re = rateLimiter(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re //stop here if rate limit fails
	}

	return re
}
