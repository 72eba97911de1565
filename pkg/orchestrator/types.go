//go:generate mockgen -destination=./mocks/orchestrator.go . LocalFinder,RemoteFinder,BundleInstaller,AppLoader,PostInstaller

package orchestrator

import (
	"context"

	"github.com/glorpus-work/blnotebook/pkg/app"
	"github.com/glorpus-work/blnotebook/pkg/repository"
	"github.com/glorpus-work/blnotebook/pkg/version"
)

// LocalFinder is the subset of the local repository used by the orchestrator.
type LocalFinder interface {
	FindBest(ctx context.Context, c repository.Criteria) *app.App
}

// RemoteFinder is the subset of the remote repository used to pick a release file.
type RemoteFinder interface {
	BaseURL() string
	FindVersionFolder(ctx context.Context, spec *version.Version) (*repository.VersionFolder, error)
	FindBestFile(ctx context.Context, folder *repository.VersionFolder, c repository.Criteria) (*repository.RemoteFile, error)
}

// BundleInstaller downloads and unpacks release files.
type BundleInstaller interface {
	Download(ctx context.Context, f *repository.RemoteFile, force bool) error
	Install(ctx context.Context, f *repository.RemoteFile, force bool) (string, error)
}

// AppLoader builds an App for a fresh installation.
type AppLoader interface {
	Load(ctx context.Context, spec app.Spec) (*app.App, error)
}

// PostInstaller runs user hooks after a new installation.
type PostInstaller interface {
	PostInstall(ctx context.Context, a *app.App) error
}

// Orchestrator resolves a Blender installation: locally first, then by
// downloading and installing a release file.
type Orchestrator struct {
	Local       LocalFinder
	Remote      RemoteFinder
	Installer   BundleInstaller
	Loader      AppLoader
	PostInstall PostInstaller // optional
	Hooks       Hooks         // Hooks for progress and event notifications
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // resolving|found|downloading|installing|done
	ID    string // release file name
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// Request describes what to resolve.
type Request struct {
	Criteria repository.Criteria
	// AllowRemote permits downloading when nothing suitable is installed.
	AllowRemote bool
	// DryRun reports the release file that would be installed without
	// downloading it.
	DryRun bool
	// Strict asks a fresh installation to confirm its platform by probing.
	Strict bool
}
