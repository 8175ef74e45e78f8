// Package cli provides the command-line interface for the prospect binary.
package cli

import (
	"github.com/law-makers/prospect/internal/app"
)

// The Application is built once in the root command's PersistentPreRunE and
// torn down in PersistentPostRun, so a package-level holder is sufficient.
var globalApp *app.Application

// SetApp stores the Application for commands to access.
func SetApp(a *app.Application) {
	globalApp = a
}

// GetApp retrieves the current Application, or nil before setup.
func GetApp() *app.Application {
	return globalApp
}
