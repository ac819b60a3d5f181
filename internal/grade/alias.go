package grade

type Resolution int

const (
	Unchanged Resolution = iota
	Aliased
	Ignored
)

// Aliases redirects source labels to the marker label used on the template.
// Keys are normalized labels. An empty target marks the label as ignored.
type Aliases map[string]string

// Set records that label should match target. An empty target ignores label.
func (a Aliases) Set(label, target string) {
	a[Normalize(label)] = target
}

// Resolve returns the label to match on and how it was obtained.
// A nil table leaves every label unchanged.
func (a Aliases) Resolve(label string) (string, Resolution) {
	target, ok := a[Normalize(label)]
	switch {
	case !ok:
		return label, Unchanged
	case target == "":
		return label, Ignored
	default:
		return target, Aliased
	}
}
