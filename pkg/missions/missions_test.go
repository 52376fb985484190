package missions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/missions-helper/pkg/conclusion"
	"github.com/user/missions-helper/pkg/report"
)

func TestDetermineCategory(t *testing.T) {
	cases := []struct {
		assetTypes []string
		want       string
	}{
		{[]string{"Host Assessment"}, "host"},
		{[]string{"Web Application"}, "web"},
		{[]string{"Mobile App"}, "mobile"},
		{[]string{"API Endpoint"}, "api"},
		{[]string{"SV2M Target"}, "sv2m"},
		{[]string{"something else"}, "web"},
		{nil, "web"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetermineCategory(tc.assetTypes))
	}
}

func TestClassification(t *testing.T) {
	m := &Mission{TaskType: "SV2M"}
	assert.Equal(t, conclusion.SV2M, m.Classification())

	m = &Mission{TaskType: "sv2m"}
	assert.Equal(t, conclusion.SV2M, m.Classification())

	m = &Mission{TaskType: "MISSION"}
	assert.Equal(t, conclusion.Standard, m.Classification())

	m = &Mission{}
	assert.Equal(t, conclusion.Standard, m.Classification())
}

func TestCacheRoundTrip(t *testing.T) {
	c := &Cache{Dir: t.TempDir()}

	missions, err := c.Load()
	require.NoError(t, err)
	assert.Empty(t, missions)

	in := []Mission{
		{ID: "m1", Title: "First", ListingCodename: "ACMECORP"},
		{ID: "m2", Title: "Second", TaskType: "SV2M"},
	}
	require.NoError(t, c.Save(in))

	out, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)

	found, err := c.Find("m2")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Second", found.Title)

	missing, err := c.Find("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBuildEvidence(t *testing.T) {
	doc := report.NewDocument()
	doc.Set(report.SectionIntroduction, "intro")
	doc.Set(report.SectionTesting, "steps")
	doc.Set(report.SectionConclusionFail, "found a bug")

	m := conclusion.Mapping{
		Section:            report.SectionConclusionFail,
		StructuredResponse: "yes",
		Present:            true,
	}
	p := BuildEvidence(doc, m)
	assert.Equal(t, "intro", p.Introduction)
	assert.Equal(t, "steps", p.TestingMethodology)
	assert.Equal(t, "found a bug", p.Conclusion)
	assert.Equal(t, "yes", p.StructuredResponse)
}

func TestEvidencePayloadOmitsAbsentStructuredResponse(t *testing.T) {
	doc := report.NewDocument()
	doc.Set(report.SectionConclusionPass, "nothing found")

	m := conclusion.Mapping{Section: report.SectionConclusionPass}
	data, err := json.Marshal(BuildEvidence(doc, m))
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	_, ok := raw["structuredResponse"]
	assert.False(t, ok, "structuredResponse key must be absent, not empty")
	assert.Contains(t, raw, "introduction")
	assert.Contains(t, raw, "testing_methodology")
	assert.Contains(t, raw, "conclusion")
}

func writeToken(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("secret-token\n"), 0600))
	return path
}

func TestSyncEvidence(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/tasks/v2/tasks/m1/evidences", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, writeToken(t))
	err := c.SyncEvidence(context.Background(), "m1", EvidencePayload{
		Introduction:       "i",
		TestingMethodology: "t",
		Conclusion:         "c",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "i", gotBody["introduction"])
}

func TestSyncEvidenceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, writeToken(t))
	err := c.SyncEvidence(context.Background(), "m1", EvidencePayload{})
	assert.ErrorContains(t, err, "HTTP 500")
}

func TestFetchTasksPaginatesAndCaches(t *testing.T) {
	page1 := make([]Mission, 20)
	for i := range page1 {
		page1[i] = Mission{ID: "a"}
	}
	page2 := []Mission{{ID: "last", Title: "Last"}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			json.NewEncoder(w).Encode(page1)
		default:
			json.NewEncoder(w).Encode(page2)
		}
	}))
	defer srv.Close()

	cache := &Cache{Dir: t.TempDir()}
	c := NewClient(srv.URL, writeToken(t))
	missions, err := c.FetchTasks(context.Background(), cache)
	require.NoError(t, err)
	assert.Len(t, missions, 21)

	cached, err := cache.Load()
	require.NoError(t, err)
	assert.Len(t, cached, 21)
	assert.Equal(t, "last", cached[20].ID)
}

func TestFetchTasksMissingToken(t *testing.T) {
	c := NewClient("http://unused", filepath.Join(t.TempDir(), "absent"))
	_, err := c.FetchTasks(context.Background(), nil)
	assert.Error(t, err)
}
