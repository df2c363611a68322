package common

import "strconv"

// Missing is shown in place of a value the provider did not supply.
const Missing = "None"

// FormatFloat renders v in its shortest form (15.2, 1012), or Missing when nil.
func FormatFloat(v *float64) string {
	if v == nil {
		return Missing
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FormatString returns *v, or Missing when nil.
func FormatString(v *string) string {
	if v == nil {
		return Missing
	}
	return *v
}
