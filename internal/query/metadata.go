package query

import (
	"os"
	"path/filepath"
	"time"

	"github.com/itsmostafa/docidx/internal/docindex"
)

// SectionMeta summarises one section.
type SectionMeta struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Level         int    `json:"level"`
	SourceFile    string `json:"source_file"`
	WordCount     int    `json:"word_count"`
	TokenEstimate int    `json:"token_estimate"`
	ChildrenCount int    `json:"children_count"`
	HasContent    bool   `json:"has_content"`
}

// FileInfo describes a root file on disk.
type FileInfo struct {
	File         string    `json:"file"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ProjectMeta summarises a whole snapshot.
type ProjectMeta struct {
	ProjectRoot   string     `json:"project_root"`
	Generation    string     `json:"generation"`
	ParsedAt      time.Time  `json:"parsed_at"`
	TotalSections int        `json:"total_sections"`
	TotalWords    int        `json:"total_words"`
	IncludedFiles int        `json:"included_files"`
	RootFiles     []FileInfo `json:"root_files"`
}

// Metadata returns word and token counts for one section.
func Metadata(snap *docindex.Snapshot, id string) (SectionMeta, error) {
	s, err := Section(snap, id)
	if err != nil {
		return SectionMeta{}, err
	}
	return SectionMeta{
		ID:            s.ID,
		Title:         s.Title,
		Level:         s.Level,
		SourceFile:    s.SourceFile,
		WordCount:     CountWords(s.Content),
		TokenEstimate: CountTokens(s.Content),
		ChildrenCount: len(s.Children),
		HasContent:    s.Content != "",
	}, nil
}

// ProjectMetadata summarises the snapshot. Root files that vanished since
// the snapshot was taken are listed without size or time.
func ProjectMetadata(snap *docindex.Snapshot) ProjectMeta {
	meta := ProjectMeta{
		ProjectRoot:   snap.Dir,
		Generation:    snap.Generation,
		ParsedAt:      snap.ParsedAt,
		IncludedFiles: len(snap.IncludedFiles()),
	}
	for _, s := range snap.Sections() {
		meta.TotalSections++
		meta.TotalWords += CountWords(s.Content)
	}
	for _, root := range snap.RootFiles() {
		info := FileInfo{File: relativeTo(snap.Dir, root)}
		if st, err := os.Stat(root); err == nil {
			info.Size = st.Size()
			info.LastModified = st.ModTime()
		}
		meta.RootFiles = append(meta.RootFiles, info)
	}
	return meta
}

func relativeTo(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return path
	}
	return rel
}
