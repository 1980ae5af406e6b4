package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures into the kinds the CLI reports. A failure
// carries at most one tag; untagged errors are reported without a kind.
var (
	// ErrTagFetch marks network, HTTP status, TLS/redirect, timeout, and
	// cancellation failures while downloading an archive.
	ErrTagFetch = goerr.NewTag("FetchError")

	// ErrTagArchive marks invalid, corrupt, or unsafe archives.
	ErrTagArchive = goerr.NewTag("ArchiveError")

	// ErrTagLayout marks archives without exactly one top-level directory.
	ErrTagLayout = goerr.NewTag("LayoutError")

	// ErrTagFilesystem marks directory creation, move, and copy failures.
	ErrTagFilesystem = goerr.NewTag("FilesystemError")

	// ErrTagModel marks model directory verification failures.
	ErrTagModel = goerr.NewTag("ModelError")

	// ErrTagSpeech marks speech synthesis command failures.
	ErrTagSpeech = goerr.NewTag("SpeechError")

	// ErrTagLLM marks LLM request and response decoding failures.
	ErrTagLLM = goerr.NewTag("LLMError")
)

// errorKindEntry pairs an error tag with its taxonomy name. It is generic
// because goerr/v2's tag type is unexported and can only be referenced here
// through type inference.
type errorKindEntry[T any] struct {
	tag  T
	name string
}

func newErrorKind[T any](tag T, name string) errorKindEntry[T] {
	return errorKindEntry[T]{tag: tag, name: name}
}

func errorKindList[T any](entries ...errorKindEntry[T]) []errorKindEntry[T] {
	return entries
}

var errorKinds = errorKindList(
	newErrorKind(ErrTagFetch, "FetchError"),
	newErrorKind(ErrTagArchive, "ArchiveError"),
	newErrorKind(ErrTagLayout, "LayoutError"),
	newErrorKind(ErrTagFilesystem, "FilesystemError"),
	newErrorKind(ErrTagModel, "ModelError"),
	newErrorKind(ErrTagSpeech, "SpeechError"),
	newErrorKind(ErrTagLLM, "LLMError"),
)

// ErrorKind returns the taxonomy name for err, or an empty string when the
// error carries no known tag.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, kind := range errorKinds {
		if goerr.HasTag(err, kind.tag) {
			return kind.name
		}
	}
	return ""
}
