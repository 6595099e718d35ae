package differ

// Option is a functional option for configuring a Differ.
type Option func(*differ)

// WithIgnoredFields sets change paths (or path prefixes such as "links")
// that Changes leaves out.
func WithIgnoredFields(paths ...string) Option {
	return func(d *differ) {
		for _, p := range paths {
			d.ignoreFields[p] = true
		}
	}
}

// WithPatches enables/disables text patches on prose changes.
func WithPatches(enabled bool) Option {
	return func(d *differ) {
		d.patches = enabled
	}
}

// WithStructuralFallback enables/disables the field-by-field comparison used
// for requirements without a stored fingerprint. When disabled such pairs are
// always classified as changed.
func WithStructuralFallback(enabled bool) Option {
	return func(d *differ) {
		d.structuralFallback = enabled
	}
}
