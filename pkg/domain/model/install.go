package model

// Entry is one immediate child of the destination directory after install
type Entry struct {
	Name string // Base name of the entry
	Dir  bool   // True when the entry is a directory
	Size int64  // File size in bytes; zero for directories
}

// InstallResult represents the outcome of a model archive install
type InstallResult struct {
	Dest    string  // Resolved absolute destination path
	Entries []Entry // Immediate children of Dest, in directory order
	Size    int64   // Downloaded archive size in bytes
}
