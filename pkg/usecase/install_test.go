package usecase_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/types"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/usecase"
)

// MockFetcher is a mock implementation of Fetcher
type MockFetcher struct {
	fetchFunc  func(ctx context.Context, url, path string) (int64, error)
	fetchCalls []string
}

func (m *MockFetcher) FetchFile(ctx context.Context, url, path string) (int64, error) {
	m.fetchCalls = append(m.fetchCalls, url)
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url, path)
	}
	return 0, errors.New("mock not configured")
}

// archiveFetcher returns a fetcher that writes data as the downloaded archive
func archiveFetcher(data []byte) *MockFetcher {
	return &MockFetcher{
		fetchFunc: func(ctx context.Context, url, path string) (int64, error) {
			if err := os.WriteFile(path, data, 0644); err != nil {
				return 0, err
			}
			return int64(len(data)), nil
		},
	}
}

// createModelZip builds a zip archive from a name to content map
func createModelZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)

	for filename, content := range files {
		writer, err := zipWriter.Create(filename)
		gt.NoError(t, err)

		_, err = writer.Write([]byte(content))
		gt.NoError(t, err)
	}

	gt.NoError(t, zipWriter.Close())
	return buf.Bytes()
}

// tempLeftovers counts scoped temp entries so tests can verify cleanup
func tempLeftovers(t *testing.T) int {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "convai-*"))
	gt.NoError(t, err)
	return len(matches)
}

// snapshotTree maps relative paths to file contents under root
func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()

	snap := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			snap[rel+"/"] = ""
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		snap[rel] = string(content)
		return nil
	})
	gt.NoError(t, err)
	return snap
}

func TestInstall_Success(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "model")

	zipData := createModelZip(t, map[string]string{
		"vosk-model-small/a":   "file a content",
		"vosk-model-small/b/c": "nested file content",
	})

	before := tempLeftovers(t)

	uc := usecase.NewInstall(archiveFetcher(zipData))
	result, err := uc.Install(ctx, "http://models.example.com/model.zip", dest)

	gt.NoError(t, err)
	gt.True(t, filepath.IsAbs(result.Dest))
	gt.Equal(t, result.Size, int64(len(zipData)))

	content, err := os.ReadFile(filepath.Join(dest, "a"))
	gt.NoError(t, err)
	gt.Equal(t, string(content), "file a content")

	content, err = os.ReadFile(filepath.Join(dest, "b", "c"))
	gt.NoError(t, err)
	gt.Equal(t, string(content), "nested file content")

	// The archive temp file and staging directory are gone
	gt.Equal(t, tempLeftovers(t), before)

	// Entries describe the destination after install
	names := make([]string, 0, len(result.Entries))
	for _, e := range result.Entries {
		names = append(names, e.Name)
	}
	gt.Equal(t, names, []string{"a", "b"})
}

func TestInstall_ZeroTopLevelDirs(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "model")

	// Only top-level files, no directory to select
	zipData := createModelZip(t, map[string]string{
		"README.txt": "not a model layout",
	})

	before := tempLeftovers(t)

	uc := usecase.NewInstall(archiveFetcher(zipData))
	_, err := uc.Install(ctx, "http://models.example.com/model.zip", dest)

	gt.Error(t, err)
	gt.Equal(t, types.ErrorKind(err), "LayoutError")
	gt.String(t, err.Error()).Contains("expected exactly one top-level directory in archive, found 0")

	// Destination was created but left untouched beyond that
	entries, readErr := os.ReadDir(dest)
	gt.NoError(t, readErr)
	gt.Equal(t, len(entries), 0)

	gt.Equal(t, tempLeftovers(t), before)
}

func TestInstall_MultipleTopLevelDirs(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "model")

	zipData := createModelZip(t, map[string]string{
		"model-a/final.mdl": "a",
		"model-b/final.mdl": "b",
	})

	uc := usecase.NewInstall(archiveFetcher(zipData))
	_, err := uc.Install(ctx, "http://models.example.com/model.zip", dest)

	gt.Error(t, err)
	gt.Equal(t, types.ErrorKind(err), "LayoutError")
	gt.String(t, err.Error()).Contains("expected exactly one top-level directory in archive, found 2")
}

func TestInstall_TopLevelFilesIgnored(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "model")

	// A stray top-level file next to the single directory does not break
	// selection and is not installed
	zipData := createModelZip(t, map[string]string{
		"LICENSE":              "stray file",
		"vosk-model/final.mdl": "weights",
	})

	uc := usecase.NewInstall(archiveFetcher(zipData))
	result, err := uc.Install(ctx, "http://models.example.com/model.zip", dest)

	gt.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dest, "final.mdl"))
	gt.NoError(t, statErr)

	_, statErr = os.Stat(filepath.Join(dest, "LICENSE"))
	gt.True(t, os.IsNotExist(statErr))

	gt.Equal(t, len(result.Entries), 1)
}

func TestInstall_Idempotence(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "model")

	zipData := createModelZip(t, map[string]string{
		"vosk-model/final.mdl":       "weights",
		"vosk-model/graph/words.txt": "the words",
	})

	uc := usecase.NewInstall(archiveFetcher(zipData))

	_, err := uc.Install(ctx, "http://models.example.com/model.zip", dest)
	gt.NoError(t, err)
	first := snapshotTree(t, dest)

	_, err = uc.Install(ctx, "http://models.example.com/model.zip", dest)
	gt.NoError(t, err)
	second := snapshotTree(t, dest)

	gt.Equal(t, second, first)
}

func TestInstall_OverwritesSameRelativePath(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "model")

	v1 := createModelZip(t, map[string]string{
		"vosk-model/final.mdl": "version one",
	})
	v2 := createModelZip(t, map[string]string{
		"vosk-model/final.mdl": "version two",
	})

	uc := usecase.NewInstall(archiveFetcher(v1))
	_, err := uc.Install(ctx, "http://models.example.com/v1.zip", dest)
	gt.NoError(t, err)

	uc = usecase.NewInstall(archiveFetcher(v2))
	_, err = uc.Install(ctx, "http://models.example.com/v2.zip", dest)
	gt.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dest, "final.mdl"))
	gt.NoError(t, err)
	gt.Equal(t, string(content), "version two")
}

func TestInstall_PreservesUnrelatedFiles(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "model")

	gt.NoError(t, os.MkdirAll(dest, 0755))
	gt.NoError(t, os.WriteFile(filepath.Join(dest, "z"), []byte("unrelated"), 0644))

	zipData := createModelZip(t, map[string]string{
		"vosk-model/final.mdl": "weights",
	})

	uc := usecase.NewInstall(archiveFetcher(zipData))
	_, err := uc.Install(ctx, "http://models.example.com/model.zip", dest)
	gt.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dest, "z"))
	gt.NoError(t, err)
	gt.Equal(t, string(content), "unrelated")
}

func TestInstall_FetchError(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "model")

	mock := &MockFetcher{
		fetchFunc: func(ctx context.Context, url, path string) (int64, error) {
			return 0, goerr.New("connection refused",
				goerr.V("url", url), goerr.T(types.ErrTagFetch))
		},
	}

	before := tempLeftovers(t)

	uc := usecase.NewInstall(mock)
	result, err := uc.Install(ctx, "http://unreachable.invalid/model.zip", dest)

	gt.Error(t, err)
	gt.Value(t, result).Nil()
	gt.Equal(t, types.ErrorKind(err), "FetchError")

	gt.Equal(t, tempLeftovers(t), before)
	gt.Number(t, len(mock.fetchCalls)).Greater(0)
}

func TestInstall_CancelDuringFetch(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "model")

	// Blocks until cancellation, like a stalled download
	mock := &MockFetcher{
		fetchFunc: func(ctx context.Context, url, path string) (int64, error) {
			<-ctx.Done()
			return 0, goerr.Wrap(ctx.Err(), "failed to fetch archive",
				goerr.T(types.ErrTagFetch))
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	before := tempLeftovers(t)
	start := time.Now()

	uc := usecase.NewInstall(mock)
	_, err := uc.Install(ctx, "http://models.example.com/model.zip", dest)

	gt.Error(t, err)
	gt.Equal(t, types.ErrorKind(err), "FetchError")
	gt.True(t, time.Since(start) < 5*time.Second)
	gt.Equal(t, tempLeftovers(t), before)
}

func TestInstall_InvalidArchive(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "model")

	before := tempLeftovers(t)

	uc := usecase.NewInstall(archiveFetcher([]byte("this is not valid zip data")))
	result, err := uc.Install(ctx, "http://models.example.com/model.zip", dest)

	gt.Error(t, err)
	gt.Value(t, result).Nil()
	gt.Equal(t, types.ErrorKind(err), "ArchiveError")

	gt.Equal(t, tempLeftovers(t), before)
}

func TestInstall_RejectsTraversalEntry(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "model")

	zipData := createModelZip(t, map[string]string{
		"../escape.txt": "outside",
	})

	uc := usecase.NewInstall(archiveFetcher(zipData))
	_, err := uc.Install(ctx, "http://models.example.com/model.zip", dest)

	gt.Error(t, err)
	gt.Equal(t, types.ErrorKind(err), "ArchiveError")
}

func TestInstall_CreatesMissingDestination(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "deeply", "nested", "model")

	zipData := createModelZip(t, map[string]string{
		"vosk-model/final.mdl": "weights",
	})

	uc := usecase.NewInstall(archiveFetcher(zipData))
	result, err := uc.Install(ctx, "http://models.example.com/model.zip", dest)

	gt.NoError(t, err)
	gt.Equal(t, result.Dest, dest)
}
