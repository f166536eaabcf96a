package explorer

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/distscope/distscope/internal/waiting"
)

// LoadDataset reads and parses the data file off the UI goroutine.
func LoadDataset(source *DataSource, path string, reload bool) tea.Cmd {
	return func() tea.Msg {
		ds, err := source.Load(path)
		if err != nil {
			return DatasetErrorMsg{Err: err, Reload: reload}
		}
		return DatasetLoadedMsg{Dataset: ds, Reload: reload}
	}
}

// RetryLoad waits out the delay, then asks for another load attempt.
// Used after a reload failure, which usually means the file was caught
// mid-write.
func RetryLoad(delay waiting.Delay) tea.Cmd {
	return func() tea.Msg {
		wait, cancel := delay.Wait()
		defer cancel()
		<-wait
		return RetryLoadMsg{}
	}
}
