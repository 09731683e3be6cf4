package constants

// Placeholder values written into entries when a habit changes input type.
const (
	PlaceholderDoneText        = "Done"
	PlaceholderRecordedText    = "Entry recorded"
	PlaceholderDoneEmoji       = "✅"
	PlaceholderInProgressEmoji = "⏳"
	PlaceholderTextEmoji       = "😊"
)
