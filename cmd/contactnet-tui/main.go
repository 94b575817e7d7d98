// Command contactnet-tui browses a saved contactnet report: the statistics
// table, the communities of each graph and the Louvain level trace.
package main

import (
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dd0wney/cluso-contactnet/pkg/report"
)

func main() {
	path := "report.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	rep, err := report.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to load report: %v", err)
	}

	p := tea.NewProgram(initialModel(rep, path), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
