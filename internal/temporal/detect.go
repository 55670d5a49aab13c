package temporal

// Detect classifies a single sample against the default catalog. Families are
// tried in the order DateDMY, DateYMD, DatetimeDMY, DatetimeYMD, so an
// ambiguous value always resolves to the earlier family.
func Detect(sample string) (Family, bool) {
	return defaultCatalog.Detect(sample)
}

// Detect classifies a single sample against c. See the package-level Detect.
func (c *Catalog) Detect(sample string) (Family, bool) {
	for _, f := range detectionOrder {
		if _, ok := c.Match(f, sample); ok {
			return f, true
		}
	}
	return 0, false
}
