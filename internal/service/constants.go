package service

const (
	// History list size in the TUI
	RecentProfilesLimit = 10

	// Permissions for exported reports
	ReportDirPerm  = 0755
	ReportFilePerm = 0644
)
