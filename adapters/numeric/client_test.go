package numeric

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statadvisor/domain/assumption"
	"statadvisor/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(Config{BaseURL: server.URL + "/", Timeout: time.Second})
	require.NoError(t, err)
	return client
}

func TestTestNormalityPostsValues(t *testing.T) {
	var received assumption.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/assumptions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"normality":{"shapiroWilk":{"statistic":0.96,"pValue":0.38,"isNormal":true}}}`))
	})

	payload, err := client.TestNormality(context.Background(), assumption.Request{
		Values: []float64{1, 2, 3, 4},
		Groups: [][]float64{{1, 2}, {3, 4}},
		Alpha:  0.05, NormalityRule: assumption.RuleAny,
	})
	require.NoError(t, err)
	require.NotNil(t, payload.ShapiroWilk)
	assert.True(t, *payload.ShapiroWilk.IsNormal)
	assert.InDelta(t, 0.38, *payload.ShapiroWilk.PValue, 1e-9)

	assert.Equal(t, []float64{1, 2, 3, 4}, received.Values)
	assert.Nil(t, received.Groups)
	assert.Equal(t, assumption.RuleAny, received.NormalityRule)
}

func TestTestHomogeneityPartialPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"homogeneity":{"levene":{"pValue":0.02}}}`))
	})

	payload, err := client.TestHomogeneity(context.Background(), assumption.Request{
		Groups: [][]float64{{1, 2, 3}, {4, 5, 9}},
		Alpha:  0.05,
	})
	require.NoError(t, err)
	require.NotNil(t, payload.Levene)
	assert.Nil(t, payload.Levene.EqualVariance)
	assert.Nil(t, payload.Levene.Statistic)
}

func TestServerErrorIsExternal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "scipy exploded", http.StatusInternalServerError)
	})

	_, err := client.TestNormality(context.Background(), assumption.Request{Values: []float64{1, 2, 3}})
	require.Error(t, err)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
	assert.Contains(t, err.Error(), "500")
}

func TestMissingSectionIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"summary":{}}`))
	})

	_, err := client.TestNormality(context.Background(), assumption.Request{Values: []float64{1, 2, 3}})
	assert.Error(t, err)
}

func TestRequestsBelowMinimumAreRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called")
	})

	_, err := client.TestNormality(context.Background(), assumption.Request{Values: []float64{1, 2}})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = client.TestHomogeneity(context.Background(), assumption.Request{Groups: [][]float64{{1, 2}}})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "  "})
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
