// Package usecase contains the application use cases.
package usecase

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/runoshun/schedule/internal/domain"
)

// InitBoardInput contains the input parameters for InitBoard.
type InitBoardInput struct {
	DataDir     string // Path to the data directory (.schedule)
	ProjectRoot string // Directory holding the data directory; "" skips the .gitignore check
}

// InitBoardOutput contains the output from InitBoard.
type InitBoardOutput struct {
	DataDir           string // Path to the data directory
	Created           bool   // True if a new empty board was written
	GitignoreNeedsAdd bool   // True if the project is a git checkout that doesn't ignore the data directory
}

// InitBoard creates the data directory and an empty board.
type InitBoard struct {
	storeInit domain.StoreInitializer
}

// NewInitBoard creates a new InitBoard use case.
func NewInitBoard(storeInit domain.StoreInitializer) *InitBoard {
	return &InitBoard{storeInit: storeInit}
}

// Execute creates the data directory with its logs directory, then asks the
// store to write an empty board. An existing board is left untouched.
func (uc *InitBoard) Execute(_ context.Context, in InitBoardInput) (*InitBoardOutput, error) {
	if err := os.MkdirAll(filepath.Join(in.DataDir, "logs"), 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	created, err := uc.storeInit.Initialize()
	if err != nil {
		return nil, fmt.Errorf("initialize board store: %w", err)
	}

	out := &InitBoardOutput{DataDir: in.DataDir, Created: created}
	if created && in.ProjectRoot != "" && isGitCheckout(in.ProjectRoot) {
		out.GitignoreNeedsAdd = !isIgnored(in.ProjectRoot, filepath.Base(in.DataDir))
	}
	return out, nil
}

func isGitCheckout(root string) bool {
	_, err := os.Stat(filepath.Join(root, ".git"))
	return err == nil
}

// isIgnored reports whether root/.gitignore lists name, with or without a
// leading or trailing slash.
func isIgnored(root, name string) bool {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.Trim(strings.TrimSpace(sc.Text()), "/")
		if line == name {
			return true
		}
	}
	return false
}
