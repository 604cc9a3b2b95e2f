package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// EnvelopeFunc is a gateway-style function handler.
type EnvelopeFunc func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// AdaptHTTP exposes an envelope handler as an http.Handler so the local dev
// server can stand in for the cloud gateway.
func AdaptHTTP(fn EnvelopeFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		params := map[string]string{}
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}

		resp, err := fn(r.Context(), events.APIGatewayProxyRequest{
			HTTPMethod:            r.Method,
			QueryStringParameters: params,
			Body:                  string(body),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		w.Write([]byte(resp.Body))
	})
}
