// Package project resolves the Jack sources named on the command line and
// writes their analysis results next to them.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tliron/commonlog"
)

// SourceExt is the extension of Jack source files.
const SourceExt = ".jack"

var log = commonlog.GetLogger("jackal.project")

// Project is the set of sources selected by one path: either a single
// .jack file or every .jack file directly inside a directory.
type Project struct {
	RootDir string
	Sources []string
	Config  *Config
}

// Load resolves path and reads the configuration from the project
// directory. A non-nil cfg takes the place of jackal.toml.
func Load(path string, cfg *Config) (*Project, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	p := &Project{}
	if info.IsDir() {
		p.RootDir = path
		p.Sources, err = JackFiles(path)
		if err != nil {
			return nil, err
		}
	} else {
		if filepath.Ext(path) != SourceExt {
			return nil, fmt.Errorf("%s: not a %s file", path, SourceExt)
		}
		p.RootDir = filepath.Dir(path)
		p.Sources = []string{path}
	}

	if cfg == nil {
		cfg, err = FindConfig(p.RootDir)
		if err != nil {
			return nil, err
		}
	}
	p.Config = cfg

	log.Debugf("project %s: %d source(s)", p.RootDir, len(p.Sources))
	return p, nil
}

// JackFiles returns the .jack files directly inside dir, sorted by name.
func JackFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if filepath.Ext(entry.Name()) == SourceExt {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// OutputPath replaces the extension of source with ext.
func OutputPath(source, ext string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ext
}

// TokensPath is the output path of the token listing for source: the base
// name with a T suffix, e.g. Main.jack -> MainT.xml.
func TokensPath(source, ext string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + "T" + ext
}

// Outputs lists the files an analysis of the project writes.
func (p *Project) Outputs() []string {
	var out []string
	for _, src := range p.Sources {
		out = append(out, OutputPath(src, p.Config.Output.Extension))
		if p.Config.Output.Tokens {
			out = append(out, TokensPath(src, ".xml"))
		}
	}
	return out
}
