package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/glorpus-work/blnotebook/internal/logger"
	"github.com/glorpus-work/blnotebook/pkg/app"
	"github.com/glorpus-work/blnotebook/pkg/repository"
	"github.com/glorpus-work/blnotebook/pkg/version"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List Blender installations",
		Long: `List the Blender installations found on the search path.

With --blender-version, --arch or --ostype only matching installations are shown;
--all ignores the version. With --remote the release folders of the mirror are
listed instead, and for major.minor folders the downloadable files they contain.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if Opts.Remote {
				return runListRemote(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), all)
			}
			return runList(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), all)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "List all installations regardless of the requested version")

	return cmd
}

func runList(ctx context.Context, out, errOut io.Writer, all bool) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	var (
		c    repository.Criteria
		apps []*app.App
	)
	if Opts.BlenderVersion == "" || all {
		apps = s.local.Apps(ctx)
	} else {
		if c, err = s.criteria(Opts.BlenderVersion); err != nil {
			return err
		}
		c.ExtPattern = ""
		apps = s.local.FindAll(ctx, c)
	}

	if c.IsEmpty() {
		_, _ = fmt.Fprintln(errOut, "List blenders:")
	} else {
		_, _ = fmt.Fprintf(errOut, "List blenders (%s):\n", c)
	}

	if len(apps) == 0 {
		if all {
			_, _ = fmt.Fprintln(errOut, "Can not detect any installed blenders")
		} else {
			_, _ = fmt.Fprintln(errOut, "No installed blender matched")
		}
		return nil
	}

	for _, a := range apps {
		v := color.GreenString("%-*s", VersionColumnWidth, a.Version())
		if Opts.Verbose {
			_, _ = fmt.Fprintf(out, "%s %-*s %-*s %s\n", v,
				PlatformColumnWidth, a.OSType().Name(),
				PlatformColumnWidth, a.Architecture().Name(),
				a.Directory())
		} else {
			_, _ = fmt.Fprintf(out, "%s %s\n", v, a.Directory())
		}
	}
	return nil
}

type folderListing struct {
	files []*repository.RemoteFile
	err   error
}

func runListRemote(ctx context.Context, out, errOut io.Writer, all bool) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	spec := Opts.BlenderVersion
	if all {
		spec = ""
	}
	c, err := s.criteria(spec)
	if err != nil {
		return err
	}

	folders, err := s.remote.VersionFolders(ctx, true)
	if err != nil {
		return err
	}

	var selected []*repository.VersionFolder
	for _, f := range folders {
		if c.Version == nil || related(*c.Version, f.Version) {
			selected = append(selected, f)
		}
	}

	// Folders named by major.minor hold the release files; list them in parallel.
	listings := make([]folderListing, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(RemoteListConcurrency)
	for i, f := range selected {
		if len(f.Version.Elements()) >= 3 {
			continue
		}
		g.Go(func() error {
			files, err := f.FindAll(gctx, c)
			listings[i] = folderListing{files: files, err: err}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, f := range selected {
		if len(f.Version.Elements()) >= 3 {
			_, _ = fmt.Fprintf(out, "%s %s\n", color.GreenString("%-*s", VersionColumnWidth, f.Version), f.URL)
			continue
		}
		l := listings[i]
		if l.err != nil {
			if Opts.Verbose {
				_, _ = fmt.Fprintf(errOut, "ERROR: %s: %v\n", f.URL, l.err)
			}
			continue
		}
		if len(l.files) == 0 {
			logger.Debug(fmt.Sprintf("%s: no blender installation file found (%s)", f.URL, c))
			continue
		}
		for _, file := range l.files {
			_, _ = fmt.Fprintf(out, "%s %s\n", color.GreenString("%-*s", VersionColumnWidth, file.Version), file.Href)
		}
	}
	return nil
}

// related reports whether either version contains the other.
func related(a, b version.Version) bool {
	return a.Contains(b) || b.Contains(a)
}
