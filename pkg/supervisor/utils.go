package supervisor

import "strings"

// filterErrors returns only the non-nil errors.
func filterErrors(errs []error) []error {
	filtered := []error{}
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return filtered
}

// stringifyErrors flattens errors into one readable string.
func stringifyErrors(errs []error) string {
	strs := make([]string, len(errs))
	for i, err := range errs {
		strs[i] = err.Error()
	}
	return strings.Join(strs, " | ")
}
