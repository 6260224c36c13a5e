package hiscores

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *APIClient {
	return &APIClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		BaseURL:    baseURL,
		pageDelay:  0,
	}
}

func TestFetchSkill(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/overall", r.URL.Path)
		assert.Equal(t, fmt.Sprintf("%d", TableID(SkillAttack)), r.URL.Query().Get("table"))

		page := r.URL.Query().Get("page")
		fmt.Fprintf(w, `<table>
			<tr><td>%s1</td><td>BB_Page%s</td><td>99</td><td>1,000</td></tr>
		</table>`, page, page)
	}))
	defer srv.Close()

	records, err := testClient(srv.URL).FetchSkill(context.Background(), SkillAttack)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "BB_Page1", records[0].Name)
	assert.Equal(t, "BB_Page2", records[1].Name)
	assert.Equal(t, int32(2), requests.Load())
}

func TestFetchSkill_RetriesServerErrors(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `<table><tr><td>1</td><td>BB_Bob</td><td>99</td><td>1,000</td></tr></table>`)
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	records, err := client.FetchSkill(context.Background(), SkillMining)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.GreaterOrEqual(t, requests.Load(), int32(3))
}

func TestFetchSkill_ClientErrorIsFatal(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchSkill(context.Background(), SkillAttack)
	require.Error(t, err)
	assert.Equal(t, int32(1), requests.Load())
}

func TestFetchAll_ToleratesPartialFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("table") == fmt.Sprintf("%d", TableID(SkillCooking)) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `<table><tr><td>1</td><td>BB_Bob</td><td>99</td><td>1,000</td></tr></table>`)
	}))
	defer srv.Close()

	raw, err := testClient(srv.URL).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, raw[SkillCooking])
	assert.Len(t, raw[SkillAttack], 2)
}

func TestFetchAll_AllFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchAll(context.Background())
	require.Error(t, err)
}
