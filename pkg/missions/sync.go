package missions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/missions-helper/pkg/conclusion"
	"github.com/user/missions-helper/pkg/logging"
	"github.com/user/missions-helper/pkg/report"
)

// EvidencePayload is the evidence body the platform accepts. The
// structuredResponse key is omitted entirely when absent; the platform
// distinguishes a missing key from an empty value.
type EvidencePayload struct {
	Introduction       string `json:"introduction"`
	TestingMethodology string `json:"testing_methodology"`
	Conclusion         string `json:"conclusion"`
	StructuredResponse string `json:"structuredResponse,omitempty"`
}

// BuildEvidence assembles the payload from a document and a resolved
// conclusion mapping. The conclusion body comes from the section the
// mapping selected.
func BuildEvidence(doc *report.Document, m conclusion.Mapping) EvidencePayload {
	intro, _ := doc.Get(report.SectionIntroduction)
	steps, _ := doc.Get(report.SectionTesting)
	concl, _ := doc.Get(m.Section)
	p := EvidencePayload{
		Introduction:       intro,
		TestingMethodology: steps,
		Conclusion:         concl,
	}
	if m.Present {
		p.StructuredResponse = m.StructuredResponse
	}
	return p
}

// Client talks to the platform task API using a bearer token read from a
// token file on each call, so an externally refreshed token is picked up
// without restart.
type Client struct {
	Platform  string
	TokenFile string
	HTTP      *http.Client
}

func NewClient(platform, tokenFile string) *Client {
	return &Client{
		Platform:  strings.TrimRight(platform, "/"),
		TokenFile: tokenFile,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) token() (string, error) {
	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		return "", fmt.Errorf("reading token file: %w", err)
	}
	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", fmt.Errorf("token file %s is empty", c.TokenFile)
	}
	return tok, nil
}

// SyncEvidence submits the evidence payload for a mission.
func (c *Client) SyncEvidence(ctx context.Context, missionID string, payload EvidencePayload) error {
	token, err := c.token()
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/tasks/v2/tasks/%s/evidences", c.Platform, missionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	logging.L().Info("syncing evidence", zap.String("mission", missionID))
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("evidence sync request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	default:
		return fmt.Errorf("evidence sync failed: HTTP %d", resp.StatusCode)
	}
}

// FetchTasks pages through claimed missions and writes the result through
// the cache when one is provided.
func (c *Client) FetchTasks(ctx context.Context, cache *Cache) ([]Mission, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}

	const perPage = 20
	var all []Mission
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/api/tasks/v2/tasks?perPage=%d&viewed=true&page=%d&status=CLAIMED&includeAssignedBySynackUser=true",
			c.Platform, perPage, page)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching tasks: %w", err)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			return nil, fmt.Errorf("task fetch unauthorized, check token file")
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("task fetch failed: HTTP %d", resp.StatusCode)
		}

		var batch []Mission
		err = json.NewDecoder(resp.Body).Decode(&batch)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding tasks: %w", err)
		}

		all = append(all, batch...)
		if len(batch) < perPage {
			break
		}
	}

	logging.L().Info("fetched missions", zap.Int("count", len(all)))
	if cache != nil {
		if err := cache.Save(all); err != nil {
			logging.L().Warn("failed to write task cache", zap.Error(err))
		}
	}
	return all, nil
}
