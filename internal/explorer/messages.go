package explorer

// DatasetLoadedMsg carries a freshly parsed dataset into the UI.
type DatasetLoadedMsg struct {
	Dataset *Dataset

	// Reload is true when the load was triggered by a file change
	// rather than startup or an explicit reload key.
	Reload bool
}

// DatasetErrorMsg reports a failure to read or parse the data file.
type DatasetErrorMsg struct {
	Err    error
	Reload bool
}

// FileChangedMsg indicates the watched data file was modified on disk.
type FileChangedMsg struct{}

// RetryLoadMsg asks for another load attempt after a failed reload,
// typically because the file was caught mid-write.
type RetryLoadMsg struct{}

// SidebarAnimationMsg drives the stats sidebar expand/collapse frames.
type SidebarAnimationMsg struct{}
