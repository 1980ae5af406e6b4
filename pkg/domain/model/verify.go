package model

// FileCheck records whether one probed model file exists
type FileCheck struct {
	Path  string // Path relative to the model directory
	Found bool
}

// ModelReport represents the outcome of a model directory inspection.
// Candidates are alternative layout markers; any single match passes.
// WordsFile is required regardless of layout.
type ModelReport struct {
	Dir        string // Absolute model directory
	Candidates []FileCheck
	WordsFile  FileCheck
	OK         bool
}
