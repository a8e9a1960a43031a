package build

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shinji-kodama/vcr-manage/internal/config"
	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// ThemeDir returns where a theme must live inside the client sources.
func (b *Builder) ThemeDir() string {
	return filepath.Join(b.path(clientDir), "src", "themes", b.Settings.Theme)
}

// installTheme copies THEME_PATH into the client's theme directory. The
// returned cleanup removes the copy; it never fails the build and is
// safe to call when nothing was copied.
//
// An empty THEME_PATH selects a theme bundled with the client and
// copies nothing.
func (b *Builder) installTheme() (func(), error) {
	noop := func() {}

	src := b.Settings.ThemePath
	if src == "" {
		return noop, nil
	}
	src = b.path(src)

	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return noop, model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("%s %q does not exist or is not a directory", config.VarThemePath, b.Settings.ThemePath))
	}

	dst := b.ThemeDir()
	if _, err := os.Stat(dst); err == nil {
		return noop, model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("theme directory %s already exists; remove it or choose another %s", dst, config.VarTheme))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return noop, fmt.Errorf("checking theme directory: %w", err)
	}

	log := b.logger()
	if b.DryRun {
		log.Info("would copy theme", "from", src, "to", dst)
		return noop, nil
	}

	log.Info("copying theme", "from", src, "to", dst)
	cleanup := func() {
		if err := os.RemoveAll(dst); err != nil {
			log.Warn("failed to remove copied theme", "dir", dst, "err", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return noop, fmt.Errorf("creating themes directory: %w", err)
	}
	if err := os.CopyFS(dst, os.DirFS(src)); err != nil {
		cleanup()
		return noop, fmt.Errorf("copying theme: %w", err)
	}
	return cleanup, nil
}
