package pkg

// Contains check source have target
func Contains(slice []string, val string) bool {
	for _, v := range slice {
		if v == val {
			return true
		}
	}
	return false
}

// Other return the first element not equal to val, empty if none
func Other(slice []string, val string) string {
	for _, v := range slice {
		if v != val {
			return v
		}
	}
	return ""
}
