package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrNoAngular is returned when no package.json above the root depends on @angular/core
var ErrNoAngular = errors.New("no @angular/core dependency found")

const angularCore = "@angular/core"

var (
	// explicit `this` receivers carry their own AST node from Angular 12 on
	supportedAngular = mustConstraint(">= 12.0.0-0")
	// @if, @for and @defer are lexed as text by the template parser
	blockSyntax = mustConstraint(">= 17.0.0-0")
)

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

type packageJSON struct {
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	PeerDeps        map[string]string `json:"peerDependencies"`
}

func readPackageJSON(path string) (*packageJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &pkg, nil
}

// ParseVersion accepts an exact version or a package.json range and returns
// the lowest version the range admits.
func ParseVersion(spec string) (*semver.Version, error) {
	spec = strings.TrimLeft(strings.TrimSpace(spec), "^~>=v ")
	if i := strings.IndexAny(spec, " |,"); i >= 0 {
		spec = spec[:i]
	}
	if spec == "" {
		return nil, fmt.Errorf("empty Angular version")
	}
	spec = strings.NewReplacer(".x", ".0", ".X", ".0", ".*", ".0").Replace(spec)
	v, err := semver.NewVersion(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid Angular version %q: %w", spec, err)
	}
	return v, nil
}

// AngularVersion finds the Angular version of the project containing root.
// An installed node_modules/@angular/core wins over the declared range.
func AngularVersion(root string) (*semver.Version, error) {
	dir, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		installed := filepath.Join(dir, "node_modules", angularCore, "package.json")
		if pkg, err := readPackageJSON(installed); err == nil && pkg.Version != "" {
			return ParseVersion(pkg.Version)
		}
		if pkg, err := readPackageJSON(filepath.Join(dir, "package.json")); err == nil {
			for _, deps := range []map[string]string{pkg.Dependencies, pkg.DevDependencies, pkg.PeerDeps} {
				if spec, ok := deps[angularCore]; ok {
					return ParseVersion(spec)
				}
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("%w above %s", ErrNoAngular, root)
		}
		dir = parent
	}
}

// Compatibility describes how well the template parser matches a project
type Compatibility struct {
	Version     *semver.Version
	Supported   bool
	BlockSyntax bool
}

// CheckVersion compares v with the template syntax ngthis parses
func CheckVersion(v *semver.Version) Compatibility {
	return Compatibility{
		Version:     v,
		Supported:   supportedAngular.Check(v),
		BlockSyntax: blockSyntax.Check(v),
	}
}

// Warnings returns the messages a CLI prints for c
func (c Compatibility) Warnings() []string {
	var out []string
	if !c.Supported {
		out = append(out, fmt.Sprintf("Angular %s is older than 12; `this.` receivers may be misclassified", c.Version))
	}
	if c.BlockSyntax {
		out = append(out, fmt.Sprintf("Angular %s supports control flow blocks; expressions inside @if, @for and @defer are not linted", c.Version))
	}
	return out
}
