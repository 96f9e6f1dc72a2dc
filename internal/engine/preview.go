package engine

// maxPreviewLength caps how much statement text appears in error messages.
const maxPreviewLength = 80

func preview(stmt string) string {
	if len(stmt) <= maxPreviewLength {
		return stmt
	}
	return stmt[:maxPreviewLength] + "..."
}
