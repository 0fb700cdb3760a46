package port

type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}

type FileInfo struct {
	Path    string
	ModTime int64
	Size    int64
}

// Extractor returns the plain text of one document.
type Extractor interface {
	Extract(path string) (string, error)
}
