package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/interfaces"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/model"
	"github.com/EdgeAI-ElevenOps/Conversational-AI/pkg/domain/types"
)

// Acoustic model files that mark a usable Vosk layout. Small models ship a
// bare final.mdl while larger ones split into am/ and ivector/ directories,
// so any one of these counts.
var modelCandidateFiles = []string{
	"am/final.mdl",
	"final.mdl",
	"graph/Gr.fst",
	"ivector/final.ie",
}

// The word list is required regardless of layout.
const modelWordsFile = "graph/words.txt"

type verifyUseCase struct{}

func NewVerify() interfaces.VerifyUseCase {
	return &verifyUseCase{}
}

// Verify probes the model directory for the files speech recognition needs.
// The returned report carries every probe result even when an error is
// returned, so callers can show what is present and what is missing.
func (u *verifyUseCase) Verify(ctx context.Context, dir string) (*model.ModelReport, error) {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	report := &model.ModelReport{Dir: dir}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return report, goerr.New("model directory not found",
			goerr.V("dir", dir),
			goerr.T(types.ErrTagModel))
	}

	found := 0
	for _, rel := range modelCandidateFiles {
		check := model.FileCheck{Path: rel, Found: fileExists(filepath.Join(dir, rel))}
		if check.Found {
			found++
		}
		report.Candidates = append(report.Candidates, check)
	}

	report.WordsFile = model.FileCheck{
		Path:  modelWordsFile,
		Found: fileExists(filepath.Join(dir, modelWordsFile)),
	}

	ctxlog.From(ctx).Debug("probed model directory",
		"dir", dir,
		"candidates_found", found,
		"words_found", report.WordsFile.Found,
	)

	if found == 0 {
		return report, goerr.New("no acoustic model files found",
			goerr.V("dir", dir),
			goerr.T(types.ErrTagModel))
	}

	if !report.WordsFile.Found {
		return report, goerr.New("word list is missing, re-download the model",
			goerr.V("path", modelWordsFile),
			goerr.T(types.ErrTagModel))
	}

	report.OK = true
	return report, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
