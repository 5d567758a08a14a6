package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"lameta/internal/logging"
	"lameta/internal/services"
)

// Options configure Load.
type Options struct {
	// ExcludePatterns are doublestar globs matched against each file's path
	// relative to the project root and against its base name.
	ExcludePatterns []string
	Logger          *slog.Logger
}

type loader struct {
	root    string
	exclude []string
	logger  *slog.Logger
	project *Project
}

// Load reads the project rooted at root.
func Load(ctx context.Context, root string, opts Options) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "project", "resolve root", "Invalid project path", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "project", "stat root", "Project directory not found", err)
		}
		return nil, services.Wrap(services.ErrValidation, "project", "stat root", "Cannot access project directory", err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "project", "stat root", "Project path is not a directory", nil)
	}
	for _, pattern := range opts.ExcludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, services.Wrap(services.ErrConfiguration, "project", "exclude patterns", fmt.Sprintf("Invalid exclude pattern %q", pattern), nil)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	l := &loader{
		root:    abs,
		exclude: opts.ExcludePatterns,
		logger:  logging.NewComponentLogger(logger, "project"),
		project: &Project{Root: abs},
	}
	if err := l.loadProjectFile(); err != nil {
		return nil, err
	}
	if err := l.loadSessions(ctx); err != nil {
		return nil, err
	}
	if err := l.loadPeople(ctx); err != nil {
		return nil, err
	}
	if l.project.DescriptionDocuments, err = l.listFiles(filepath.Join(abs, DescriptionDocumentsDir)); err != nil {
		return nil, err
	}
	if l.project.OtherDocuments, err = l.listFiles(filepath.Join(abs, OtherDocumentsDir)); err != nil {
		return nil, err
	}

	l.logger.Debug("project loaded",
		logging.String("project", l.project.Name),
		logging.Int("sessions", len(l.project.Sessions)),
		logging.Int("people", len(l.project.People)),
		logging.Int("files", l.project.FileCount()),
	)
	return l.project, nil
}

func (l *loader) loadProjectFile() error {
	matches, err := filepath.Glob(filepath.Join(l.root, "*"+ProjectExt))
	if err != nil {
		return services.Wrap(services.ErrValidation, "project", "find project file", "Cannot list project directory", err)
	}
	if len(matches) == 0 {
		return services.Wrap(services.ErrValidation, "project", "find project file",
			fmt.Sprintf("No %s file in %s", ProjectExt, l.root), nil)
	}
	sort.Strings(matches)
	projectPath := matches[0]
	md, err := readMetadata(projectPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "project", "read project file", "Project file is not valid XML", err)
	}
	l.project.Name = strings.TrimSuffix(filepath.Base(projectPath), ProjectExt)
	l.project.Fields = md.fields
	l.project.Problems = append(l.project.Problems, md.problems...)
	l.project.MetadataFile, err = l.statFile(projectPath)
	return err
}

func (l *loader) folderIDs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrValidation, "project", "list folders", "Cannot read "+dir, err)
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (l *loader) loadSessions(ctx context.Context) error {
	ids, err := l.folderIDs(filepath.Join(l.root, SessionsDir))
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return services.Wrap(services.ErrCancelled, "project", "load sessions", "Load cancelled", err)
		}
		dir := filepath.Join(l.root, SessionsDir, id)
		metaPath, ok := findMetadataFile(dir, id, SessionExt)
		if !ok {
			l.problem(fmt.Sprintf("session folder %s has no %s file", id, SessionExt))
			continue
		}
		md, err := readMetadata(metaPath)
		if err != nil {
			return services.Wrap(services.ErrValidation, "project", "read session", "Session file is not valid XML", err)
		}
		metaFile, err := l.statFile(metaPath)
		if err != nil {
			return err
		}
		files, err := l.listFiles(dir)
		if err != nil {
			return err
		}
		session := &Session{
			ID:            firstNonBlank(md.fields.Text("id"), id),
			Dir:           dir,
			RelDir:        path.Join(SessionsDir, id),
			MetadataFile:  metaFile,
			Fields:        md.fields,
			Contributions: md.contributions,
			Files:         files,
		}
		l.project.Problems = append(l.project.Problems, md.problems...)
		l.project.Sessions = append(l.project.Sessions, session)
	}
	sort.SliceStable(l.project.Sessions, func(i, j int) bool {
		return l.project.Sessions[i].ID < l.project.Sessions[j].ID
	})
	return nil
}

func (l *loader) loadPeople(ctx context.Context) error {
	ids, err := l.folderIDs(filepath.Join(l.root, PeopleDir))
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return services.Wrap(services.ErrCancelled, "project", "load people", "Load cancelled", err)
		}
		dir := filepath.Join(l.root, PeopleDir, id)
		metaPath, ok := findMetadataFile(dir, id, PersonExt)
		if !ok {
			l.problem(fmt.Sprintf("person folder %s has no %s file", id, PersonExt))
			continue
		}
		md, err := readMetadata(metaPath)
		if err != nil {
			return services.Wrap(services.ErrValidation, "project", "read person", "Person file is not valid XML", err)
		}
		metaFile, err := l.statFile(metaPath)
		if err != nil {
			return err
		}
		files, err := l.listFiles(dir)
		if err != nil {
			return err
		}
		languages := md.languages
		if len(languages) == 0 {
			languages = legacyLanguages(&md.fields)
		}
		l.project.Problems = append(l.project.Problems, md.problems...)
		l.project.People = append(l.project.People, &Person{
			ID:           id,
			Dir:          dir,
			RelDir:       path.Join(PeopleDir, id),
			MetadataFile: metaFile,
			Fields:       md.fields,
			Languages:    languages,
			Files:        files,
		})
	}
	return nil
}

// findMetadataFile prefers <id><ext> and falls back to the first file with
// the extension.
func findMetadataFile(dir, id, ext string) (string, bool) {
	preferred := filepath.Join(dir, id+ext)
	if info, err := os.Stat(preferred); err == nil && !info.IsDir() {
		return preferred, true
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "*"+ext))
	if len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	return matches[0], true
}

// listFiles returns the content files directly inside dir, sorted by name.
func (l *loader) listFiles(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrValidation, "project", "list files", "Cannot read "+dir, err)
	}
	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !l.isContentFile(dir, name) {
			continue
		}
		full := filepath.Join(dir, name)
		file, err := l.statFile(full)
		if err != nil {
			return nil, err
		}
		sidecar := full + MetaExt
		if _, statErr := os.Stat(sidecar); statErr == nil {
			md, readErr := readMetadata(sidecar)
			if readErr != nil {
				l.problem(fmt.Sprintf("ignoring unreadable sidecar %s: %v", file.RelPath+MetaExt, readErr))
			} else {
				file.Fields = md.fields
				file.Contributions = md.contributions
				l.project.Problems = append(l.project.Problems, md.problems...)
			}
		}
		files = append(files, file)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (l *loader) isContentFile(dir, name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "ro-crate") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ProjectExt, SessionExt, PersonExt, MetaExt:
		return false
	}
	rel := l.relPath(filepath.Join(dir, name))
	for _, pattern := range l.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
		if ok, _ := doublestar.Match(pattern, name); ok {
			return false
		}
	}
	return true
}

func (l *loader) statFile(full string) (File, error) {
	info, err := os.Stat(full)
	if err != nil {
		return File{}, services.Wrap(services.ErrValidation, "project", "stat file", "Cannot access "+full, err)
	}
	return File{
		Name:    filepath.Base(full),
		Path:    full,
		RelPath: l.relPath(full),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

func (l *loader) relPath(full string) string {
	rel, err := filepath.Rel(l.root, full)
	if err != nil {
		return filepath.ToSlash(full)
	}
	return filepath.ToSlash(rel)
}

func (l *loader) problem(msg string) {
	l.project.Problems = append(l.project.Problems, msg)
	l.logger.Debug("project load problem", logging.String("problem", msg))
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
