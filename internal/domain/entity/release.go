package entity

const maxReleaseNameLength = 60

// Release is a published set of cards.
type Release struct {
	ID       int64
	Name     string
	Stub     string
	IsLegacy bool
	IsPublic bool

	// Legacy-only flags.
	IsPHG      bool
	IsPromo    bool
	IsRetiring bool

	DesignerName *string
	DesignerURL  *string

	NameZh *string
	StubZh *string
}

// NewRelease returns a release named name. An empty stub is derived from the name.
func NewRelease(name, stub string) *Release {
	if stub == "" {
		stub = Stubify(name)
	}
	return &Release{Name: name, Stub: stub}
}

// Validate checks field constraints.
func (r *Release) Validate() error {
	if err := validateLength("name", r.Name, maxReleaseNameLength); err != nil {
		return err
	}
	if r.Stub == "" {
		r.Stub = Stubify(r.Name)
	}
	if err := validateLength("stub", r.Stub, maxReleaseNameLength); err != nil {
		return err
	}
	if r.DesignerURL != nil {
		if err := ValidateURL("designer_url", *r.DesignerURL); err != nil {
			return err
		}
	}
	return validateLocalized(&r.NameZh, &r.StubZh, maxReleaseNameLength)
}

// ReleaseWithOwnership pairs a release with whether the requesting user owns it.
type ReleaseWithOwnership struct {
	Release
	IsMine bool
}
