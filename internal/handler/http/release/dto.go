package release

import "ashes-live/internal/domain/entity"

// DTO is the public representation of a release. IsMine is only present
// for authenticated callers.
type DTO struct {
	Name         string  `json:"name"`
	Stub         string  `json:"stub"`
	IsLegacy     bool    `json:"is_legacy"`
	IsPHG        bool    `json:"is_phg"`
	IsPromo      bool    `json:"is_promo"`
	IsRetiring   bool    `json:"is_retiring"`
	DesignerName *string `json:"designer_name,omitempty"`
	DesignerURL  *string `json:"designer_url,omitempty"`
	NameZh       *string `json:"name_zh,omitempty"`
	StubZh       *string `json:"stub_zh,omitempty"`
	IsMine       *bool   `json:"is_mine,omitempty"`
}

func toDTO(r entity.Release) DTO {
	return DTO{
		Name:         r.Name,
		Stub:         r.Stub,
		IsLegacy:     r.IsLegacy,
		IsPHG:        r.IsPHG,
		IsPromo:      r.IsPromo,
		IsRetiring:   r.IsRetiring,
		DesignerName: r.DesignerName,
		DesignerURL:  r.DesignerURL,
		NameZh:       r.NameZh,
		StubZh:       r.StubZh,
	}
}

func toDTOs(releases []entity.ReleaseWithOwnership, withOwnership bool) []DTO {
	out := make([]DTO, 0, len(releases))
	for _, r := range releases {
		dto := toDTO(r.Release)
		if withOwnership {
			mine := r.IsMine
			dto.IsMine = &mine
		}
		out = append(out, dto)
	}
	return out
}
