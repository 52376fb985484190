// Package missions is the boundary to the vendor platform API: mission
// records, the local task cache, and evidence submission.
package missions

import (
	"strings"

	"github.com/user/missions-helper/pkg/conclusion"
)

// Mission mirrors the fields of a platform task record that the tool uses.
// Unknown fields in the API response are ignored.
type Mission struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	ListingCodename string   `json:"listingCodename"`
	TaskType        string   `json:"taskType"`
	AssetTypes      []string `json:"assetTypes,omitempty"`
	OrganizationUID string   `json:"organizationUid,omitempty"`
	ListingUID      string   `json:"listingUid,omitempty"`
	CampaignUID     string   `json:"campaignUid,omitempty"`
	Deadline        string   `json:"deadline,omitempty"`
	Status          string   `json:"status,omitempty"`
	PayoutAmount    string   `json:"payoutAmount,omitempty"`
}

// Classification reports whether the mission follows the SV2M evidence
// model. Task types are compared case-insensitively.
func (m *Mission) Classification() conclusion.Classification {
	if strings.EqualFold(strings.TrimSpace(m.TaskType), "SV2M") {
		return conclusion.SV2M
	}
	return conclusion.Standard
}

// Category returns the template category for this mission's asset types.
func (m *Mission) Category() string {
	return DetermineCategory(m.AssetTypes)
}

// DetermineCategory maps asset types to a template category. The first
// asset type containing a known keyword wins; anything else falls back to
// web.
func DetermineCategory(assetTypes []string) string {
	for _, at := range assetTypes {
		at = strings.ToLower(at)
		switch {
		case strings.Contains(at, "host"):
			return "host"
		case strings.Contains(at, "web"):
			return "web"
		case strings.Contains(at, "mobile"):
			return "mobile"
		case strings.Contains(at, "api"):
			return "api"
		case strings.Contains(at, "sv2m"):
			return "sv2m"
		}
	}
	return "web"
}
