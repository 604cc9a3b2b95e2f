package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptHTTP(t *testing.T) {
	var captured events.APIGatewayProxyRequest
	adapted := AdaptHTTP(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		captured = req
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"ok":true}`,
		}, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/payment?action=balance&account_id=main", strings.NewReader(`{"action":"withdraw"}`))
	w := httptest.NewRecorder()

	adapted.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	assert.Equal(t, http.MethodPost, captured.HTTPMethod)
	assert.Equal(t, "balance", captured.QueryStringParameters["action"])
	assert.Equal(t, "main", captured.QueryStringParameters["account_id"])
	assert.Equal(t, `{"action":"withdraw"}`, captured.Body)
}
