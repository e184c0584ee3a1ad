// Package move relocates files inside the project root by copying and then deleting them.
package move

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taigrr/filemove-mcp/internal/files"
	"github.com/taigrr/filemove-mcp/internal/pathfilter"
	"github.com/taigrr/filemove-mcp/internal/types"
)

// Service moves files within a fixed project root.
type Service struct {
	root       string
	realRoot   string
	files      files.Files
	pathFilter *pathfilter.PathFilter
	logger     *zap.Logger
}

// New creates a move Service rooted at root.
func New(root string, f files.Files, pf *pathfilter.PathFilter, logger *zap.Logger) *Service {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = filepath.Clean(root)
	}
	if f == nil {
		f = files.New(nil)
	}
	if pf == nil {
		pf = pathfilter.New(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		root:       absRoot,
		realRoot:   absRoot,
		files:      f,
		pathFilter: pf,
		logger:     logger,
	}
	if canonical, err := s.realPath(absRoot); err == nil {
		s.realRoot = canonical
	}
	return s
}

// Root returns the project root every path is resolved against.
func (s *Service) Root() string {
	return s.root
}

// ResolvePath joins relativePath onto the root and verifies it stays inside.
// A blank path, or one naming the root itself, resolves to "".
func (s *Service) ResolvePath(relativePath string) (string, error) {
	relativePath = strings.TrimSpace(relativePath)
	if relativePath == "" {
		return "", nil
	}

	normalized := strings.TrimPrefix(filepath.FromSlash(relativePath), string(filepath.Separator))
	fullPath := filepath.Join(s.root, normalized)

	rel, ok := within(s.root, fullPath)
	if !ok {
		return "", fmt.Errorf("path traversal not allowed: %s", relativePath)
	}
	if rel == "." {
		return "", nil
	}

	return fullPath, nil
}

// within returns path relative to root, and false when it leaves root.
func within(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// realPath resolves symlinks when the Files capability supports them.
func (s *Service) realPath(path string) (string, error) {
	if rp, ok := s.files.(files.RealPather); ok {
		return rp.RealPath(path)
	}
	return filepath.Clean(path), nil
}

// Move copies params.Source to params.Destination and then deletes the source.
// It never returns an error: every outcome, including a recovered panic from the
// filesystem, is reported through the result kind.
func (s *Service) Move(params types.MoveParams) (result types.MoveResult) {
	log := s.logger.With(zap.String("request_id", uuid.NewString()))
	log.Info("Processing file-move tool")

	source, realSource, ok, res := s.resolve(log, params.Source, "source")
	if !ok {
		return res
	}
	destination, realDestination, ok, res := s.resolve(log, params.Destination, "destination")
	if !ok {
		return res
	}
	log = log.With(zap.String("source", source), zap.String("destination", destination))

	// Copying a file onto itself and then deleting the source would lose it.
	if realSource == realDestination {
		log.Warn("Rejected move onto itself")
		return types.MoveResult{
			Kind:        types.KindSamePath,
			Message:     fmt.Sprintf("Error: Source and destination are the same file '%s'", source),
			Source:      source,
			Destination: destination,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("Error moving file", zap.Any("error", r))
			result = types.MoveResult{
				Kind:        types.KindUnexpectedFailure,
				Message:     fmt.Sprintf("Error: %v", r),
				Source:      source,
				Destination: destination,
			}
		}
	}()

	return s.move(log, source, destination, params.CreateDirectory)
}

// resolve turns one request path into an absolute path and its symlink-free
// form, or a failed result.
func (s *Service) resolve(log *zap.Logger, path, param string) (string, string, bool, types.MoveResult) {
	outside := func(err error) (string, string, bool, types.MoveResult) {
		log.Warn("Rejected path outside root", zap.String(param, path), zap.Error(err))
		return "", "", false, types.MoveResult{
			Kind:    types.KindAccessDenied,
			Message: fmt.Sprintf("Error: Path '%s' is outside the project root", strings.TrimSpace(path)),
		}
	}

	resolved, err := s.ResolvePath(path)
	if err != nil {
		return outside(err)
	}

	if resolved == "" {
		log.Warn("Missing parameter", zap.String("parameter", param))
		return "", "", false, types.MoveResult{
			Kind:    types.KindMissingParameter,
			Message: fmt.Sprintf("Error: Missing %s parameter", param),
		}
	}

	canonical, err := s.realPath(resolved)
	if err != nil {
		return outside(err)
	}
	realRel, ok := within(s.realRoot, canonical)
	if !ok {
		return outside(fmt.Errorf("symlink leaves root: %s", canonical))
	}

	rel, _ := filepath.Rel(s.root, resolved)
	if !s.pathFilter.IsAllowed(filepath.ToSlash(rel)) || !s.pathFilter.IsAllowed(filepath.ToSlash(realRel)) {
		log.Warn("Rejected filtered path", zap.String(param, resolved))
		return "", "", false, types.MoveResult{
			Kind:    types.KindAccessDenied,
			Message: fmt.Sprintf("Error: Access denied: '%s'", resolved),
		}
	}

	return resolved, canonical, true, types.MoveResult{}
}

func (s *Service) move(log *zap.Logger, source, destination string, createDirectory bool) types.MoveResult {
	fail := func(kind types.ResultKind, msg string, err error) types.MoveResult {
		log.Warn("File move failed", zap.String("kind", string(kind)), zap.Error(err))
		return types.MoveResult{
			Kind:        kind,
			Message:     msg,
			Source:      source,
			Destination: destination,
		}
	}

	if !s.files.Exists(source) {
		return fail(types.KindSourceNotFound,
			fmt.Sprintf("Error: Source file '%s' does not exist", source), nil)
	}

	if createDirectory {
		dir := filepath.Dir(destination)
		if !s.files.Exists(dir) {
			if err := s.files.EnsureDirectory(dir); err != nil {
				return fail(types.KindDirectoryCreateFailed,
					fmt.Sprintf("Error: Could not create directory '%s'", dir), err)
			}
			log.Debug("Created destination directory", zap.String("directory", dir))
		}
	}

	content, err := s.files.Read(source)
	if err != nil {
		return fail(types.KindReadFailed,
			fmt.Sprintf("Error: Could not read source file '%s'", source), err)
	}

	if err := s.files.Write(destination, content); err != nil {
		return fail(types.KindWriteFailed,
			fmt.Sprintf("Error: Could not write to destination file '%s'", destination), err)
	}

	// Content now exists at both paths; a failed delete is a warning, never an error.
	if err := s.files.Delete(source); err != nil {
		log.Warn("Copied file but could not delete source", zap.Error(err))
		return types.MoveResult{
			Kind:        types.KindCopiedSourceKept,
			Message:     fmt.Sprintf("Warning: File copied to '%s' but could not delete source file '%s'", destination, source),
			Source:      source,
			Destination: destination,
		}
	}

	log.Info("File moved", zap.Int("bytes", len(content)))
	return types.MoveResult{
		Kind:        types.KindMoved,
		Message:     fmt.Sprintf("Successfully moved '%s' to '%s'", source, destination),
		Source:      source,
		Destination: destination,
	}
}
