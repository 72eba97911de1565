package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/blnotebook/internal/logger"
	"github.com/glorpus-work/blnotebook/pkg/app"
	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/glorpus-work/blnotebook/pkg/repository"
)

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// notFound wraps cause into ErrInstallationNotFound.
func notFound(cause error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if cause == nil {
		return fmt.Errorf("%s: %w", msg, errors.ErrInstallationNotFound)
	}
	return fmt.Errorf("%s: %w: %w", msg, errors.ErrInstallationNotFound, cause)
}

// Resolve returns an installation matching req.Criteria. A valid local
// installation wins; otherwise, when req.AllowRemote is set, the best release
// file is downloaded and installed. In dry-run mode the chosen release file is
// only reported and Resolve returns a nil App.
//
// Every failure wraps errors.ErrInstallationNotFound.
func (o *Orchestrator) Resolve(ctx context.Context, req Request) (*app.App, error) {
	c := req.Criteria
	emit(o.Hooks, Event{Phase: "resolving", Msg: c.String()})

	if o.Local != nil {
		if a := o.Local.FindBest(ctx, c); a != nil {
			if err := a.Check(); err == nil {
				logger.Debug("installed blender found", logger.Fields{"dir": a.Directory()})
				emit(o.Hooks, Event{Phase: "found", ID: a.Name(), Msg: a.Directory()})
				return a, nil
			}
			logger.Warn("warning: Blender directory found, but executable not found: " + a.Executable())
		}
	}

	if !req.AllowRemote {
		spec := ""
		if c.Version != nil {
			spec = c.Version.String() + " "
		}
		return nil, notFound(nil, "can not find blender installed: %s(use --remote to download and install)", spec)
	}
	if o.Remote == nil {
		return nil, notFound(nil, "no remote repository configured")
	}

	folder, err := o.Remote.FindVersionFolder(ctx, c.Version)
	if err != nil {
		return nil, notFound(err, "listing %s", o.Remote.BaseURL())
	}
	if folder == nil {
		spec := "any version"
		if c.Version != nil {
			spec = "version " + c.Version.String()
		}
		return nil, notFound(nil, "no blender matching %s found at %s", spec, o.Remote.BaseURL())
	}

	file, err := o.Remote.FindBestFile(ctx, folder, c)
	if err != nil {
		return nil, notFound(err, "can not find blender (ostype=%s, arch=%s, ext=%s) in remote %s",
			joinOSTypes(c), joinArchitectures(c), c.ExtPattern, folder.URL)
	}

	if req.DryRun {
		logger.Info("(DRY-RUN) download and install: " + file.Href)
		emit(o.Hooks, Event{Phase: "done", ID: file.Name, Msg: "dry-run"})
		return nil, nil
	}
	return o.install(ctx, file, req.Strict)
}

func (o *Orchestrator) install(ctx context.Context, file *repository.RemoteFile, strict bool) (*app.App, error) {
	if o.Installer == nil || o.Loader == nil {
		return nil, notFound(nil, "installer is not configured")
	}

	emit(o.Hooks, Event{Phase: "downloading", ID: file.Name, Msg: file.Href})
	if err := o.Installer.Download(ctx, file, false); err != nil {
		return nil, notFound(err, "installation failed")
	}

	emit(o.Hooks, Event{Phase: "installing", ID: file.Name, Msg: file.ArchivePath()})
	dir, err := o.Installer.Install(ctx, file, false)
	if err != nil {
		return nil, notFound(err, "installation failed")
	}

	a, err := o.Loader.Load(ctx, app.Spec{
		Path:         filepath.Join(dir, "blender"),
		Version:      file.Version,
		Architecture: file.Architecture,
		OSType:       file.OSType,
		Strict:       strict,
	})
	if err != nil {
		return nil, notFound(err, "installation failed")
	}
	if err := a.Check(); err != nil {
		return nil, notFound(err, "installation failed")
	}

	if o.PostInstall != nil {
		if err := o.PostInstall.PostInstall(ctx, a); err != nil {
			return nil, notFound(err, "post-install hook failed for %s", a.Directory())
		}
	}

	emit(o.Hooks, Event{Phase: "done", ID: file.Name, Msg: a.Directory()})
	return a, nil
}

func joinArchitectures(c repository.Criteria) string {
	names := make([]string, len(c.Architectures))
	for i, a := range c.Architectures {
		names[i] = a.String()
	}
	return strings.Join(names, "|")
}

func joinOSTypes(c repository.Criteria) string {
	names := make([]string, len(c.OSTypes))
	for i, o := range c.OSTypes {
		names[i] = o.String()
	}
	return strings.Join(names, "|")
}

// New constructs an Orchestrator from existing repositories. Helper for wiring.
func New(local LocalFinder, remote RemoteFinder, installer BundleInstaller, loader AppLoader, hooks Hooks) *Orchestrator {
	return &Orchestrator{
		Local:     local,
		Remote:    remote,
		Installer: installer,
		Loader:    loader,
		Hooks:     hooks,
	}
}
