// Package repository locates the project root an analyzed file belongs to.
// The analysis cache document is scoped to one project root, so the driver
// uses this to decide where that document lives.
package repository

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

// Project describes a detected project root.
type Project struct {
	RootPath string `json:"rootPath"`
	Type     string `json:"type"`
	Name     string `json:"name"`
}

// Detector identifies project root folders by walking up to a marker file.
type Detector struct {
	markers []string
}

// New creates a detector with the common project root markers.
func New() *Detector {
	return &Detector{
		markers: []string{
			"go.mod",         // Go projects
			"package.json",   // JavaScript/Node projects
			"pom.xml",        // Java/Maven projects
			"build.gradle",   // Java/Gradle projects
			"Cargo.toml",     // Rust projects
			"pyproject.toml", // Python projects
			"composer.json",  // PHP projects
			"Gemfile",        // Ruby projects
			".git",           // Generic VCS marker
		},
	}
}

// DetectRoot resolves the project root for the given file or directory path.
// When no marker is found the path itself becomes the root with type
// "unknown", so there is always a place to scope the cache to.
func (d *Detector) DetectRoot(path string) (*Project, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	rootPath, projectType := d.findProjectRoot(startDir)
	project := &Project{RootPath: absPath, Type: "unknown"}
	if rootPath != "" {
		project.RootPath = rootPath
		project.Type = projectType
		project.Name = extractProjectName(rootPath, projectType)
	}
	if project.Name == "" {
		project.Name = filepath.Base(project.RootPath)
	}
	return project, nil
}

// findProjectRoot searches up the directory tree for project markers.
func (d *Detector) findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, projectType(marker)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ""
}

func projectType(marker string) string {
	switch marker {
	case "go.mod":
		return "go"
	case "package.json":
		return "javascript"
	case "pom.xml", "build.gradle":
		return "java"
	case "Cargo.toml":
		return "rust"
	case "pyproject.toml":
		return "python"
	case "composer.json":
		return "php"
	case "Gemfile":
		return "ruby"
	case ".git":
		return "git"
	}
	return "unknown"
}

var jsNameRegex = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`)

func extractProjectName(rootPath, projectType string) string {
	switch projectType {
	case "go":
		return goModuleName(filepath.Join(rootPath, "go.mod"))
	case "javascript":
		return jsPackageName(filepath.Join(rootPath, "package.json"))
	}
	return filepath.Base(rootPath)
}

func goModuleName(goModPath string) string {
	fs := afs.New()
	content, _ := fs.DownloadWithURL(context.Background(), goModPath)
	if len(content) == 0 {
		return ""
	}
	if mod, _ := modfile.Parse(goModPath, content, nil); mod != nil && mod.Module != nil {
		return mod.Module.Mod.Path
	}
	return ""
}

func jsPackageName(packageJSONPath string) string {
	data, err := os.ReadFile(packageJSONPath)
	if err != nil {
		return ""
	}
	// regex rather than a full JSON parse; good enough for a display name
	matches := jsNameRegex.FindSubmatch(data)
	if len(matches) < 2 {
		return ""
	}
	return string(matches[1])
}
