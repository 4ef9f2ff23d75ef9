package constants

// User-facing strings shared by the CLI and TUI.
const (
	MsgSearchPlaceholder  = "Search logs..."
	MsgLoadingLogs        = "Loading logs..."
	MsgNoLogs             = "No logs found"
	MsgTryDifferentSearch = "Try a different search term"
	MsgCreateFirstLog     = "Create your first log entry!"
	MsgFailedToLoadLogs   = "Failed to load logs"
	MsgFailedToDeleteLog  = "Failed to delete log"

	MsgTitlePlaceholder    = "Enter log title"
	MsgLocationPlaceholder = "Location or coordinates"
	MsgContentPlaceholder  = "Write your log entry here..."
	MsgContentRequired     = "Log entry cannot be empty"
	MsgSavingSuccess       = "Log entry saved successfully!"
	MsgSavingError         = "Failed to save log entry. Please try again."
	MsgSpeechError         = "Speech Recognition Error"

	MsgLogNotFound            = "Log not found"
	MsgSuccessDelete          = "Log deleted successfully"
	MsgSuccessUpdate          = "Log updated successfully!"
	MsgFailedToUpdate         = "Failed to update log"
	MsgDeleteLogTitle         = "Delete Log"
	MsgDeleteLogMessage       = "Are you sure you want to delete %q?"
	MsgClearAllMessage        = "Delete all %d log entries? This cannot be undone."
	MsgClearUnreadableMessage = "Delete the unreadable log collection? This cannot be undone."
	MsgExportFailed           = "Export failed"
	MsgExportSuccess          = "Exported %d log entries to %s"
	MsgInvalidBackup          = "Backup file is not a valid log collection"
	MsgRestoreSuccess         = "Restored %d log entries from %s"
	MsgInstanceRunning        = "Another captainslog instance is running (pid %d); close it first"

	MsgWelcome  = "Welcome to Captain's Log"
	MsgSubtitle = "Record your journey"
)
