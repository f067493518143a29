package catalog

import (
	"strings"

	"github.com/Hoshii/models"
)

const (
	NamespaceCampaign = "campaign"
	NamespaceMember   = "member"

	// MemberPrefix marks per-member skies, e.g. "member:aki"
	MemberPrefix = "member:"
)

// SkyRef is a validated sky id
type SkyRef struct {
	ID        string
	Namespace string
	Slug      string
}

// ParseSkyID trims raw and classifies it as a campaign or member sky
func ParseSkyID(raw string) (SkyRef, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return SkyRef{}, models.NewValidationError("skyId is required")
	}

	if strings.HasPrefix(id, MemberPrefix) {
		slug := strings.TrimSpace(strings.TrimPrefix(id, MemberPrefix))
		if slug == "" {
			return SkyRef{}, models.NewValidationError("member skyId must include a slug")
		}
		return SkyRef{ID: MemberPrefix + slug, Namespace: NamespaceMember, Slug: slug}, nil
	}

	return SkyRef{ID: id, Namespace: NamespaceCampaign, Slug: id}, nil
}
