package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/dhamidi/jackal/format"
	"github.com/dhamidi/jackal/jack/parser"
)

// Result is the outcome of analyzing one source file. Output is only
// written when Err is nil.
type Result struct {
	Source string
	Output string
	Tokens []parser.Token
	Tree   *parser.Node
	Err    error
}

// Analyze runs every source of the project independently. A failing file
// does not stop the others.
func (p *Project) Analyze() []Result {
	results := make([]Result, 0, len(p.Sources))
	for _, src := range p.Sources {
		results = append(results, AnalyzeFile(src, p.Config))
	}
	return results
}

// AnalyzeFile tokenizes and parses source and writes the serialized tree
// to its output path. When cfg.Output.Tokens is set the token listing is
// written as well, even if parsing fails.
func AnalyzeFile(source string, cfg *Config) Result {
	res := Result{Source: source, Output: OutputPath(source, cfg.Output.Extension)}

	content, err := os.ReadFile(source)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", source, err)
		return res
	}

	res.Tokens, err = parser.NewLexer(content, source).Tokenize()
	if err != nil {
		res.Err = err
		log.Errorf("%s", err)
		return res
	}

	if cfg.Output.Tokens {
		path := TokensPath(source, ".xml")
		var buf bytes.Buffer
		if err := format.NewTokenEncoder(&buf, cfg.Output.Indent).Encode(res.Tokens); err != nil {
			res.Err = err
			return res
		}
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			res.Err = fmt.Errorf("write %s: %w", path, err)
			return res
		}
		log.Debugf("%s -> %s", source, path)
	}

	p := parser.New(parser.NewTokenStream(res.Tokens), parser.WithFile(source))
	res.Tree, err = p.ParseClass()
	if err != nil {
		res.Err = err
		log.Errorf("%s", err)
		return res
	}

	if err := WriteTree(res.Output, res.Tree, cfg); err != nil {
		res.Err = err
		return res
	}
	log.Infof("%s -> %s", source, res.Output)
	return res
}

// WriteTree serializes tree in the configured format and writes it to path.
func WriteTree(path string, tree *parser.Node, cfg *Config) error {
	var buf bytes.Buffer
	enc, err := format.NewEncoder(cfg.Output.Format, &buf, format.Options{Indent: cfg.Output.Indent})
	if err != nil {
		return err
	}
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Errors joins the errors of all failed results, nil if none failed.
func Errors(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
