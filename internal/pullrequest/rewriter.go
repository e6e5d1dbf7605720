package pullrequest

import "bytes"

// Rewriter changes the content of a file.
type Rewriter interface {
	// Rewrite returns the new content of the file at path.
	// If the file does not need to be changed, content is returned.
	Rewrite(path string, content []byte) ([]byte, error)
}

// LiteralRewriter replaces all occurrences of Old with New.
type LiteralRewriter struct {
	Old string
	New string
}

func (r *LiteralRewriter) Rewrite(_ string, content []byte) ([]byte, error) {
	return bytes.ReplaceAll(content, []byte(r.Old), []byte(r.New)), nil
}
