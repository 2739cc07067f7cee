package importer

// fieldSpec binds a canonical field to the spreadsheet headers that may carry
// it. Uploaded files use either French business labels or short machine keys;
// aliases are evaluated in order and the first header present in the row wins.
type fieldSpec struct {
	name    string
	aliases []string
}

// mapRow resolves staged raw data onto the canonical field set. Headers in the
// raw map are already sanitized by the excel reader, so aliases are written in
// the same folded form.
func mapRow(raw map[string]string, specs []fieldSpec) map[string]string {
	fields := make(map[string]string, len(specs))
	for _, spec := range specs {
		for _, alias := range spec.aliases {
			if value, ok := raw[alias]; ok && value != "" {
				fields[spec.name] = value
				break
			}
		}
	}
	return fields
}

// templateHeaders returns the preferred (first listed) alias of every field,
// in declaration order. These become the columns of the downloadable template.
func templateHeaders(specs []fieldSpec) []string {
	headers := make([]string, len(specs))
	for i, spec := range specs {
		headers[i] = spec.aliases[0]
	}
	return headers
}
