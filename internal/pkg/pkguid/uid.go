package pkguid

// StringID produces opaque string identifiers such as event and correlation IDs.
type StringID interface {
	Generate() string
}

// NumberID produces increasing numeric identifiers such as record IDs.
type NumberID interface {
	Generate() int64
}
