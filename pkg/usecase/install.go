package usecase

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/interfaces"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/model"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/types"
)

type installUseCase struct {
	fetcher interfaces.Fetcher
}

// NewInstall creates a new instance of InstallUseCase
func NewInstall(fetcher interfaces.Fetcher) interfaces.InstallUseCase {
	return &installUseCase{
		fetcher: fetcher,
	}
}

// tempResources owns the scoped archive file and staging directory of one
// install call. Release removes both on every exit path; problems during
// release are logged as warnings and never replace the primary error.
type tempResources struct {
	archivePath string
	stagingDir  string
}

func acquireTempResources() (*tempResources, error) {
	f, err := os.CreateTemp("", "convai-model-*.zip")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create archive temp file",
			goerr.T(types.ErrTagFilesystem))
	}
	archivePath := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(archivePath)
		return nil, goerr.Wrap(err, "failed to close archive temp file",
			goerr.V("path", archivePath), goerr.T(types.ErrTagFilesystem))
	}

	stagingDir, err := os.MkdirTemp("", "convai-staging-*")
	if err != nil {
		_ = os.Remove(archivePath)
		return nil, goerr.Wrap(err, "failed to create staging directory",
			goerr.T(types.ErrTagFilesystem))
	}

	return &tempResources{archivePath: archivePath, stagingDir: stagingDir}, nil
}

func (t *tempResources) Release(ctx context.Context) {
	logger := ctxlog.From(ctx)

	if err := os.Remove(t.archivePath); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove archive temp file",
			"path", t.archivePath, "error", err)
	}
	if err := os.RemoveAll(t.stagingDir); err != nil {
		logger.Warn("failed to remove staging directory",
			"path", t.stagingDir, "error", err)
	}
}

// Install runs the fetch, extract, relocate pipeline described on the
// InstallUseCase interface
func (uc *installUseCase) Install(ctx context.Context, url, dest string) (*model.InstallResult, error) {
	logger := ctxlog.From(ctx)

	absDest, err := filepath.Abs(dest)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve destination path",
			goerr.V("dest", dest), goerr.T(types.ErrTagFilesystem))
	}

	// Creating an already existing destination is not an error
	if err := os.MkdirAll(absDest, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create destination directory",
			goerr.V("dest", absDest), goerr.T(types.ErrTagFilesystem))
	}

	temps, err := acquireTempResources()
	if err != nil {
		return nil, err
	}
	defer temps.Release(ctx)

	logger.Info("downloading model archive", "url", url, "dest", absDest)

	size, err := uc.fetcher.FetchFile(ctx, url, temps.archivePath)
	if err != nil {
		return nil, err
	}

	logger.Info("downloaded model archive", "size", humanize.Bytes(uint64(size)))

	if err := extractArchive(temps.archivePath, temps.stagingDir); err != nil {
		return nil, err
	}

	topDir, err := selectTopLevelDir(temps.stagingDir)
	if err != nil {
		return nil, err
	}

	logger.Debug("relocating model files", "from", topDir, "to", absDest)

	if err := mergeDir(topDir, absDest); err != nil {
		return nil, err
	}

	entries, err := listEntries(absDest)
	if err != nil {
		return nil, err
	}

	logger.Info("model installed", "dest", absDest, "entries", len(entries))

	return &model.InstallResult{
		Dest:    absDest,
		Entries: entries,
		Size:    size,
	}, nil
}

// extractArchive unpacks the zip at archivePath into stagingDir
func extractArchive(archivePath, stagingDir string) error {
	mtype, err := mimetype.DetectFile(archivePath)
	if err != nil {
		return goerr.Wrap(err, "failed to probe archive type",
			goerr.V("path", archivePath), goerr.T(types.ErrTagArchive))
	}
	if !mtype.Is("application/zip") {
		return goerr.New("file is not a zip archive",
			goerr.V("path", archivePath), goerr.V("type", mtype.String()),
			goerr.T(types.ErrTagArchive))
	}

	zipReader, err := zip.OpenReader(archivePath)
	if err != nil {
		return goerr.Wrap(err, "failed to open zip archive",
			goerr.V("path", archivePath), goerr.T(types.ErrTagArchive))
	}
	defer zipReader.Close()

	for _, file := range zipReader.File {
		if err := extractFile(file, stagingDir); err != nil {
			return err
		}
	}

	return nil
}

// extractFile extracts a single file from the zip into the staging directory
func extractFile(file *zip.File, destDir string) error {
	// Security check: prevent path traversal attacks
	destPath := filepath.Join(destDir, file.Name)
	if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return goerr.New("unsafe entry path in archive",
			goerr.V("entry", file.Name), goerr.T(types.ErrTagArchive))
	}

	if file.FileInfo().IsDir() {
		if err := os.MkdirAll(destPath, file.FileInfo().Mode()); err != nil {
			return goerr.Wrap(err, "failed to create directory from archive",
				goerr.V("path", destPath), goerr.T(types.ErrTagFilesystem))
		}
		return nil
	}

	rc, err := file.Open()
	if err != nil {
		return goerr.Wrap(err, "failed to open archive entry",
			goerr.V("entry", file.Name), goerr.T(types.ErrTagArchive))
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return goerr.Wrap(err, "failed to create parent directories",
			goerr.V("path", filepath.Dir(destPath)), goerr.T(types.ErrTagFilesystem))
	}

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.FileInfo().Mode())
	if err != nil {
		return goerr.Wrap(err, "failed to create destination file",
			goerr.V("path", destPath), goerr.T(types.ErrTagFilesystem))
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, rc); err != nil {
		return goerr.Wrap(err, "failed to write archive entry",
			goerr.V("path", destPath), goerr.T(types.ErrTagArchive))
	}

	return nil
}

// selectTopLevelDir returns the single directory directly inside stagingDir.
// Plain files at the top level are ignored. Zero or multiple directories are
// a layout failure; picking the first of many silently would install an
// arbitrary model.
func selectTopLevelDir(stagingDir string) (string, error) {
	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list staging directory",
			goerr.V("dir", stagingDir), goerr.T(types.ErrTagFilesystem))
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}

	if len(dirs) != 1 {
		return "", goerr.New(
			fmt.Sprintf("expected exactly one top-level directory in archive, found %d", len(dirs)),
			goerr.T(types.ErrTagLayout))
	}

	return filepath.Join(stagingDir, dirs[0]), nil
}

// mergeDir moves every entry under srcDir into destDir. Files replace
// entries at the same relative path, directories merge with existing
// directories, and unrelated destination entries are left in place.
func mergeDir(srcDir, destDir string) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return goerr.Wrap(err, "failed to list directory",
			goerr.V("dir", srcDir), goerr.T(types.ErrTagFilesystem))
	}

	for _, entry := range entries {
		src := filepath.Join(srcDir, entry.Name())
		dst := filepath.Join(destDir, entry.Name())

		dstInfo, statErr := os.Lstat(dst)
		if statErr != nil && !os.IsNotExist(statErr) {
			return goerr.Wrap(statErr, "failed to inspect destination entry",
				goerr.V("path", dst), goerr.T(types.ErrTagFilesystem))
		}

		if entry.IsDir() && statErr == nil && dstInfo.IsDir() {
			if err := mergeDir(src, dst); err != nil {
				return err
			}
			continue
		}

		// The entry type changed between model versions; the archive wins
		if statErr == nil && dstInfo.IsDir() != entry.IsDir() {
			if err := os.RemoveAll(dst); err != nil {
				return goerr.Wrap(err, "failed to replace destination entry",
					goerr.V("path", dst), goerr.T(types.ErrTagFilesystem))
			}
		}

		if err := moveEntry(src, dst); err != nil {
			return err
		}
	}

	return nil
}

// moveEntry renames src to dst, copying across filesystems when rename is
// not possible. The system temp directory is often a separate mount.
func moveEntry(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return goerr.Wrap(err, "failed to move entry",
			goerr.V("src", src), goerr.V("dst", dst), goerr.T(types.ErrTagFilesystem))
	}

	if err := copyRecursive(src, dst); err != nil {
		return err
	}
	if err := os.RemoveAll(src); err != nil {
		return goerr.Wrap(err, "failed to remove moved source",
			goerr.V("src", src), goerr.T(types.ErrTagFilesystem))
	}
	return nil
}

func isCrossDevice(err error) bool {
	linkErr, ok := err.(*os.LinkError)
	return ok && linkErr.Err == syscall.EXDEV
}

func copyRecursive(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return goerr.Wrap(err, "failed to inspect source entry",
			goerr.V("src", src), goerr.T(types.ErrTagFilesystem))
	}

	if !info.IsDir() {
		return copyFile(src, dst, info.Mode())
	}

	if err := os.MkdirAll(dst, info.Mode()); err != nil {
		return goerr.Wrap(err, "failed to create directory",
			goerr.V("dst", dst), goerr.T(types.ErrTagFilesystem))
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return goerr.Wrap(err, "failed to list directory",
			goerr.V("dir", src), goerr.T(types.ErrTagFilesystem))
	}
	for _, entry := range entries {
		if err := copyRecursive(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return goerr.Wrap(err, "failed to open source file",
			goerr.V("src", src), goerr.T(types.ErrTagFilesystem))
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return goerr.Wrap(err, "failed to create destination file",
			goerr.V("dst", dst), goerr.T(types.ErrTagFilesystem))
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return goerr.Wrap(err, "failed to copy file content",
			goerr.V("dst", dst), goerr.T(types.ErrTagFilesystem))
	}

	if err := out.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize copied file",
			goerr.V("dst", dst), goerr.T(types.ErrTagFilesystem))
	}
	return nil
}

// listEntries returns the immediate children of dir in directory order
func listEntries(dir string) ([]model.Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list destination directory",
			goerr.V("dir", dir), goerr.T(types.ErrTagFilesystem))
	}

	entries := make([]model.Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		var size int64
		if !e.IsDir() {
			if info, err := e.Info(); err == nil {
				size = info.Size()
			}
		}
		entries = append(entries, model.Entry{Name: e.Name(), Dir: e.IsDir(), Size: size})
	}
	return entries, nil
}
